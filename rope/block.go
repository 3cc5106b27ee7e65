package rope

import "github.com/dshills/logootsplit/ident"

// Block is the metadata of one identifier run: the interval of offsets ever
// allocated for its base and the number of elements still live. A block with
// zero live elements is a tombstone; its interval still takes part in
// identifier arithmetic until the last node referring to it goes away.
type Block struct {
	interval ident.Interval
	live     int32
}

func newBlock(iv ident.Interval) *Block {
	return &Block{interval: iv}
}

// Interval returns the allocated offset range of the block.
func (b *Block) Interval() ident.Interval { return b.interval }

// Live returns the number of live elements across every node of the block.
func (b *Block) Live() int32 { return b.live }

// extend grows the allocated range to cover [begin, end]. Out-of-order
// delivery can leave temporary holes, so the growth is a plain min/max
// rather than Interval.Union.
func (b *Block) extend(begin, end int32) {
	lo := min(b.interval.Begin(), begin)
	hi := max(b.interval.End(), end)
	b.interval = ident.NewInterval(b.interval.First().WithLastOffset(lo), hi)
}
