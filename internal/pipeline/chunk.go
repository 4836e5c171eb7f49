package pipeline

import "seo-automator/internal/content"

// ChunkLinks splits links into contiguous chunks of len(links)/n entries. The chunk size
// is truncated, so when the division is uneven there are more than n chunks and callers
// that only consume the first n drop the trailing links. A zero chunk size yields no chunks.
func ChunkLinks(links []content.Link, n int) [][]content.Link {
	if n <= 0 {
		return nil
	}
	size := len(links) / n
	if size == 0 {
		return nil
	}

	var chunks [][]content.Link
	for i := 0; i < len(links); i += size {
		end := i + size
		if end > len(links) {
			end = len(links)
		}
		chunks = append(chunks, links[i:end])
	}
	return chunks
}
