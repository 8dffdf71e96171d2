package wypal

// DiffTokens computes the diff between two token slices using a longest
// common subsequence table.
//
// lcs[i][j] holds the LCS length of tokens1[i:] and tokens2[j:]. The
// alignment is read forward from (0,0): equal tokens are kept, otherwise
// the branch with the longer remaining LCS wins. On a tie the old token is
// consumed first, so removals are listed before additions.
//
// Time and memory are O(len(tokens1) * len(tokens2)).
func DiffTokens(tokens1, tokens2 []string) []Diff {
	n, m := len(tokens1), len(tokens2)
	if n == 0 && m == 0 {
		return nil
	}

	// Flat (n+1) x (m+1) table; row n and column m stay zero.
	width := m + 1
	lcs := make([]int, (n+1)*width)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if tokens1[i] == tokens2[j] {
				lcs[i*width+j] = lcs[(i+1)*width+j+1] + 1
			} else {
				lcs[i*width+j] = max(lcs[(i+1)*width+j], lcs[i*width+j+1])
			}
		}
	}

	result := make([]Diff, 0, max(n, m))
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case tokens1[i] == tokens2[j]:
			result = append(result, Diff{Type: Kept, Token: tokens1[i]})
			i++
			j++
		case lcs[(i+1)*width+j] >= lcs[i*width+j+1]:
			result = append(result, Diff{Type: Removed, Token: tokens1[i]})
			i++
		default:
			result = append(result, Diff{Type: Added, Token: tokens2[j]})
			j++
		}
	}
	for ; i < n; i++ {
		result = append(result, Diff{Type: Removed, Token: tokens1[i]})
	}
	for ; j < m; j++ {
		result = append(result, Diff{Type: Added, Token: tokens2[j]})
	}

	return result
}
