package sanitizer

func NormalizeStringSlice(items []string, normalizer Strategy) []string {
	if len(items) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	result := make([]string, 0, len(items))

	for _, item := range items {
		normalized := normalizer(item)

		if normalized == "" {
			continue
		}

		if seen[normalized] {
			continue
		}

		seen[normalized] = true
		result = append(result, normalized)
	}

	return result
}

// NormalizeSlotLabels trims labels and drops blanks and repeats, keeping publish order.
func NormalizeSlotLabels(labels []string) []string {
	return NormalizeStringSlice(labels, SanitizeSlotLabel)
}
