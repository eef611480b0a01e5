package utils

// Contains is a generic function that checks whether the specified item is present in the given slice.
//
// Args:
//   - arr: The slice to search in.
//   - item: The item to search for.
//
// Returns:
//   - bool: True if the item is found in the slice, otherwise false.
func Contains[T comparable](arr []T, item T) bool {
	for _, i := range arr {
		if i == item {
			return true
		}
	}

	return false
}
