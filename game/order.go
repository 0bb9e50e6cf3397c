package game

import "math/rand"

// ShuffleOrder returns a fresh uniform random permutation of ids. The
// permutation itself is broadcast to clients; any spinning-wheel animation
// on their side is cosmetic and never re-derives the order.
func ShuffleOrder(ids []string) []string {
	order := make([]string, len(ids))
	copy(order, ids)
	rand.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return order
}
