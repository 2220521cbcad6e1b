package engine

import (
	"testing"

	"github.com/fincast/fincast/internal/models"
)

func TestAllocateByWeightExactSum(t *testing.T) {
	mix := map[models.Product]float64{
		models.ProductSaber:             0.35,
		models.ProductTer:               0.25,
		models.ProductExecutarNoLoyalty: 0.2,
		models.ProductExecutarLoyalty:   0.15,
		models.ProductPotencializar:     0.05,
	}
	ticket := map[models.Product]float64{
		models.ProductSaber:             10000,
		models.ProductTer:               8000,
		models.ProductExecutarNoLoyalty: 6000,
		models.ProductExecutarLoyalty:   35000,
		models.ProductPotencializar:     4000,
	}
	buckets := make([]bucket, 0, len(models.AllProducts))
	for _, p := range models.AllProducts {
		buckets = append(buckets, bucket{product: p, weight: mix[p], ticket: ticket[p]})
	}

	for _, total := range []int{0, 1, 7, 17, 100, 331} {
		counts := allocateByWeight(total, buckets, productsByMixDesc(mix, ticket))
		sum := 0
		for _, n := range counts {
			sum += n
		}
		if sum != total {
			t.Fatalf("total %d: allocated %d", total, sum)
		}
	}
}

func TestAllocateRemainderFollowsOrder(t *testing.T) {
	// 10 units over two equal weights of 0.45 floors to 4+4; the two
	// leftovers must go to the head of the order first.
	mix := map[models.Product]float64{
		models.ProductSaber: 0.45,
		models.ProductTer:   0.45,
	}
	ticket := map[models.Product]float64{
		models.ProductSaber: 2000,
		models.ProductTer:   1000,
	}
	buckets := []bucket{
		{product: models.ProductSaber, weight: 0.45, ticket: 2000},
		{product: models.ProductTer, weight: 0.45, ticket: 1000},
	}
	counts := allocateByWeight(10, buckets, productsByMixDesc(mix, ticket))
	if counts[models.ProductSaber] != 5 || counts[models.ProductTer] != 5 {
		t.Fatalf("unexpected allocation: %v", counts)
	}
}

func TestMixOrderTicketTiebreak(t *testing.T) {
	mix := map[models.Product]float64{
		models.ProductSaber: 0.5,
		models.ProductTer:   0.5,
	}
	ticket := map[models.Product]float64{
		models.ProductSaber: 1000,
		models.ProductTer:   9000,
	}
	order := productsByMixDesc(mix, ticket)
	if order[0] != models.ProductTer {
		t.Fatalf("expected higher ticket to win the mix tie, got %v", order)
	}
}

func TestDistributeRemainderRemoval(t *testing.T) {
	counts := map[models.Product]int{
		models.ProductSaber: 2,
		models.ProductTer:   0,
	}
	distributeRemainder(counts, -3, []models.Product{models.ProductTer, models.ProductSaber})
	if counts[models.ProductSaber] != 0 || counts[models.ProductTer] != 0 {
		t.Fatalf("expected removal to drain available units, got %v", counts)
	}
}

func TestTicketOrders(t *testing.T) {
	ticket := map[models.Product]float64{
		models.ProductSaber:             10000,
		models.ProductTer:               8000,
		models.ProductExecutarNoLoyalty: 6000,
		models.ProductExecutarLoyalty:   35000,
		models.ProductPotencializar:     4000,
	}
	desc := productsByTicketDesc(ticket)
	if desc[0] != models.ProductExecutarLoyalty || desc[len(desc)-1] != models.ProductPotencializar {
		t.Fatalf("descending order wrong: %v", desc)
	}
	asc := productsByTicketAsc(ticket)
	if asc[0] != models.ProductPotencializar || asc[len(asc)-1] != models.ProductExecutarLoyalty {
		t.Fatalf("ascending order wrong: %v", asc)
	}
}
