package table

// Encode maps each value to a dense code in first-appearance order. A missing
// value is a level of its own. levels[code] recovers the value.
func Encode(values []Value) (codes []int32, levels []Value) {
	codes = make([]int32, len(values))
	seen := make(map[Value]int32)

	for i, v := range values {
		code, exists := seen[v]
		if !exists {
			code = int32(len(levels))
			seen[v] = code
			levels = append(levels, v)
		}
		codes[i] = code
	}

	return codes, levels
}

// EncodeTuples assigns a dense code to each distinct combination of codes
// across columns, in first-appearance order. Every column must have the same
// length. With no columns, all n rows share code 0.
func EncodeTuples(n int, columns ...[]int32) (codes []int32, count int) {
	codes = make([]int32, n)
	if len(columns) == 0 {
		if n > 0 {
			count = 1
		}
		return codes, count
	}
	if len(columns) == 1 {
		seen := make(map[int32]int32)
		for i, c := range columns[0] {
			code, exists := seen[c]
			if !exists {
				code = int32(len(seen))
				seen[c] = code
			}
			codes[i] = code
		}
		return codes, len(seen)
	}

	seen := make(map[string]int32)
	key := make([]byte, 4*len(columns))
	for i := 0; i < n; i++ {
		for j, col := range columns {
			c := uint32(col[i])
			key[4*j] = byte(c)
			key[4*j+1] = byte(c >> 8)
			key[4*j+2] = byte(c >> 16)
			key[4*j+3] = byte(c >> 24)
		}
		code, exists := seen[string(key)]
		if !exists {
			code = int32(len(seen))
			seen[string(key)] = code
		}
		codes[i] = code
	}

	return codes, len(seen)
}
