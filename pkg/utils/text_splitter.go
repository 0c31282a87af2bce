package utils

// SplitText splits a long string into rune chunks of roughly chunkSize, with
// overlap runes repeated at each boundary so context survives the cut. Most
// catalog documents fit a single chunk; long descriptions spill over. Cuts
// prefer the last line break inside the chunk, so field-per-line documents
// never split in the middle of a field.
func SplitText(text string, chunkSize int, overlap int) []string {
	if chunkSize <= 0 || len(text) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	totalLen := len(runes)

	if overlap >= chunkSize {
		overlap = 0 // fallback if overlap >= chunkSize
	}

	for i := 0; i < totalLen; {
		end := i + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[i:]))
			break
		}

		// Back off to the last newline in the rear half of the chunk;
		// a hard cut only when the chunk is one long unbroken line.
		cut := end
		for j := end; j > i+chunkSize/2; j-- {
			if runes[j-1] == '\n' {
				cut = j
				break
			}
		}

		chunks = append(chunks, string(runes[i:cut]))

		next := cut - overlap
		if next <= i {
			next = cut
		}
		i = next
	}

	return chunks
}
