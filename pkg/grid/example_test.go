package grid_test

import (
	"fmt"

	"github.com/matzehuels/gridslot/pkg/grid"
	"github.com/matzehuels/gridslot/pkg/slot"
)

func ExamplePack() {
	m := slot.Matrix{
		{slot.New("chart", 2, 1, nil)},
		{slot.New("sky", 1, 1, nil), slot.New("character", 1, 1, nil)},
	}
	p, err := grid.Pack(m)
	if err != nil {
		panic(err)
	}
	fmt.Println(p.Rows(), p.Columns())
	fmt.Println(p.CellsInColumn(1))
	// Output:
	// 2 2
	// [0:0 1:1]
}
