package slideshow

import (
	"fmt"
	"math/rand/v2"

	"github.com/dixieflatline76/Vista/pkg/source"
)

// Order is the ordering policy of the slideshow.
type Order int

const (
	// OrderByDate shows photos by taken time.
	OrderByDate Order = iota
	// OrderByName shows photos by file name.
	OrderByName
	// OrderRandom starts every cycle at a random offset and shuffles each batch.
	OrderRandom
)

var orderNames = map[Order]string{
	OrderByDate: "by-date",
	OrderByName: "by-name",
	OrderRandom: "random",
}

func (o Order) String() string {
	if name, ok := orderNames[o]; ok {
		return name
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder maps a configuration value to an Order.
func ParseOrder(name string) (Order, error) {
	for o, n := range orderNames {
		if n == name {
			return o, nil
		}
	}
	return OrderByDate, fmt.Errorf("unknown order %q", name)
}

func (o Order) sortBy() source.SortBy {
	if o == OrderByName {
		return source.SortByFilename
	}
	return source.SortByTakenTime
}

// Rand is the randomness the engine draws from.
type Rand interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
	Shuffle(n int, swap func(i, j int))
}

type globalRand struct{}

func (globalRand) IntN(n int) int                     { return rand.IntN(n) }
func (globalRand) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }
