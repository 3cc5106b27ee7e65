package ident

import "fmt"

// cursor walks an identifier's tuples and keeps returning a sentinel pad
// once the tuples are exhausted. A nil identifier is all padding, which
// stands in for a virtual -inf or +inf bound.
type cursor struct {
	id  *Identifier
	pad Tuple
	i   int
}

func (c *cursor) next() Tuple {
	if c.id == nil || c.i >= c.id.Length() {
		return c.pad
	}
	t := c.id.Tuple(c.i)
	c.i++
	return t
}

// Between generates a fresh identifier strictly between id1 and id2. A nil
// bound stands for the virtual minimum (id1) or maximum (id2) of the
// identifier space. The generated identifier inherits a prefix of id1 and
// terminates with a fresh tuple carrying the caller's replica and clock.
//
// Calling Between with id1 >= id2 is a contract violation and panics.
func Between(id1, id2 *Identifier, replica, clock int32, src Source) Identifier {
	if id1 != nil && id2 != nil && id1.Compare(*id2) >= 0 {
		panic(fmt.Sprintf("ident: between called with unordered bounds %s >= %s", id1, id2))
	}

	lo := &cursor{id: id1, pad: MinTuple}
	hi := &cursor{id: id2, pad: MaxTuple}

	var tuples []Tuple
	for {
		t1 := lo.next()
		t2 := hi.next()
		if int64(t2.Random)-int64(t1.Random) < 2 {
			// No room at this depth: inherit the lower tuple and descend.
			tuples = append(tuples, t1)
			continue
		}
		r := src.Int32Between(t1.Random, t2.Random)
		tuples = append(tuples, Tuple{Random: r, Replica: replica, Clock: clock})
		return Identifier{tuples: tuples}
	}
}
