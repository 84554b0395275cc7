package usecase

import (
	"fmt"

	"github.com/bnema/tilegrid/internal/domain/entity"
)

// seqIDs returns a generator yielding the given ids, then n1, n2, ...
func seqIDs(ids ...entity.NodeID) IDGenerator {
	n := 0
	return func() entity.NodeID {
		if len(ids) > 0 {
			id := ids[0]
			ids = ids[1:]
			return id
		}
		n++
		return entity.NodeID(fmt.Sprintf("n%d", n))
	}
}

func newTile(id entity.NodeID) *entity.Node {
	return &entity.Node{ID: id, Kind: entity.KindTile}
}

func newRow(id entity.NodeID, bps []float64, children ...*entity.Node) *entity.Node {
	n := entity.NewContainer(entity.AxisHorizontal, children, bps)
	n.ID = id
	return n
}

func childIDs(n *entity.Node) []entity.NodeID {
	ids := make([]entity.NodeID, 0, len(n.Children))
	for _, c := range n.Children {
		ids = append(ids, c.ID)
	}
	return ids
}

func ptr[T any](v T) *T {
	return &v
}
