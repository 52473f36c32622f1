package reconcile

// Join is the result of matching two key lists.
type Join[K comparable] struct {
	// Enter holds keys only in next, in next order.
	Enter []K
	// Update holds keys in both lists, in next order.
	Update []K
	// Exit holds keys only in current, in current order.
	Exit []K
}

// Diff joins current against next. Duplicate keys in either list count once.
func Diff[K comparable](current, next []K) Join[K] {
	have := make(map[K]bool, len(current))
	for _, k := range current {
		have[k] = true
	}

	var j Join[K]
	want := make(map[K]bool, len(next))
	for _, k := range next {
		if want[k] {
			continue
		}
		want[k] = true
		if have[k] {
			j.Update = append(j.Update, k)
		} else {
			j.Enter = append(j.Enter, k)
		}
	}
	for _, k := range current {
		if !want[k] {
			j.Exit = append(j.Exit, k)
			want[k] = true
		}
	}
	return j
}
