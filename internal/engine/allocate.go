package engine

import (
	"math"
	"sort"

	"github.com/fincast/fincast/internal/models"
)

// bucket is one weighted target of an integer allocation.
type bucket struct {
	product models.Product
	weight  float64
	ticket  float64
}

// allocateByWeight splits total units across buckets as floor(total*weight)
// each, then hands the leftover out one unit at a time following order,
// cycling if needed. The returned counts sum to total exactly as long as
// order is non-empty.
func allocateByWeight(total int, buckets []bucket, order []models.Product) map[models.Product]int {
	counts := make(map[models.Product]int, len(buckets))
	allocated := 0
	for _, b := range buckets {
		n := int(math.Floor(float64(total) * b.weight))
		if n < 0 {
			n = 0
		}
		counts[b.product] = n
		allocated += n
	}
	distributeRemainder(counts, total-allocated, order)
	return counts
}

// distributeRemainder reconciles counts against a target sum. A positive
// remainder is granted one unit at a time following order, cycling; a
// negative remainder is removed in order, skipping exhausted entries.
func distributeRemainder(counts map[models.Product]int, remainder int, order []models.Product) {
	if len(order) == 0 {
		return
	}
	for i := 0; remainder > 0; i = (i + 1) % len(order) {
		counts[order[i]]++
		remainder--
	}
	for remainder < 0 {
		progressed := false
		for _, p := range order {
			if remainder == 0 {
				break
			}
			if counts[p] > 0 {
				counts[p]--
				remainder++
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
}

// productsByMixDesc orders products by descending mix weight, breaking ties
// by higher ticket. Higher-mix products get remainder priority.
func productsByMixDesc(mix, ticket map[models.Product]float64) []models.Product {
	order := append([]models.Product(nil), models.AllProducts...)
	sort.SliceStable(order, func(i, j int) bool {
		if mix[order[i]] != mix[order[j]] {
			return mix[order[i]] > mix[order[j]]
		}
		return ticket[order[i]] > ticket[order[j]]
	})
	return order
}

// productsByTicketDesc orders products by descending ticket price.
func productsByTicketDesc(ticket map[models.Product]float64) []models.Product {
	order := append([]models.Product(nil), models.AllProducts...)
	sort.SliceStable(order, func(i, j int) bool {
		return ticket[order[i]] > ticket[order[j]]
	})
	return order
}

// productsByTicketAsc orders products by ascending ticket price.
func productsByTicketAsc(ticket map[models.Product]float64) []models.Product {
	order := append([]models.Product(nil), models.AllProducts...)
	sort.SliceStable(order, func(i, j int) bool {
		return ticket[order[i]] < ticket[order[j]]
	})
	return order
}
