// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package launch

// Index is the launched prefix of a registry, sorted ascending by handle.
type Index []Record

// BuildIndex insertion sorts reg[:count] by handle, in place, and returns it as an Index.
// Records from count onwards are left untouched.
func BuildIndex(reg Registry, count int) Index {
	idx := Index(reg[:count])
	if count > 1 {
		insertionSort(idx)
	}

	return idx
}

func insertionSort(idx Index) {
	for i := 1; i < len(idx); i++ {
		cur := idx[i]

		j := i - 1
		for j >= 0 && cur.handle.Less(idx[j].handle) {
			idx[j+1] = idx[j]
			j--
		}

		idx[j+1] = cur
	}
}

// Lookup finds the record launched with handle h using a binary search.
func (idx Index) Lookup(h Handle) (*Record, bool) {
	lo, hi := 0, len(idx)-1

	for lo <= hi {
		mid := lo + (hi-lo)/2

		switch c := idx[mid].handle.Compare(h); {
		case c == 0:
			return &idx[mid], true
		case c < 0:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}

	return nil, false
}
