package ppu

// fifo is a ring buffer of 2-bit colour indices.
type fifo struct {
	buf  [16]byte
	head int
	tail int
	size int
}

func (q *fifo) Clear()   { q.head, q.tail, q.size = 0, 0, 0 }
func (q *fifo) Len() int { return q.size }
func (q *fifo) Push(ci byte) bool {
	if q.size == len(q.buf) {
		return false
	}
	q.buf[q.tail] = ci & 0x03
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	return true
}
func (q *fifo) Pop() (byte, bool) {
	if q.size == 0 {
		return 0, false
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.size--
	return v, true
}

// rowFetcher walks one row of a 32x32 tile map, pushing eight pixels per
// tile into its fifo.
type rowFetcher struct {
	mem      Memory
	q        fifo
	mapBase  uint16 // 0x9800 or 0x9C00
	unsigned bool   // 0x8000 tile data; otherwise signed from 0x9000
	mapRow   uint16 // 0..31
	fineY    byte   // 0..7 within the tile
	tileX    uint16 // next map column, wraps at 32
}

func newRowFetcher(mem Memory, mapBase uint16, unsigned bool, y int, tileX int) *rowFetcher {
	return &rowFetcher{
		mem:      mem,
		mapBase:  mapBase,
		unsigned: unsigned,
		mapRow:   uint16(y>>3) & 31,
		fineY:    byte(y & 7),
		tileX:    uint16(tileX) & 31,
	}
}

func (f *rowFetcher) fetch() {
	index := f.mem.Read(f.mapBase + f.mapRow*32 + f.tileX)
	row := tileAddr(index, f.unsigned) + uint16(f.fineY)*2
	lo := f.mem.Read(row)
	hi := f.mem.Read(row + 1)
	for bit := 7; bit >= 0; bit-- {
		f.q.Push(colorIndex(lo, hi, uint(bit)))
	}
	f.tileX = (f.tileX + 1) & 31
}

// next returns the next pixel, fetching a tile when the fifo runs dry.
func (f *rowFetcher) next() byte {
	if f.q.Len() == 0 {
		f.fetch()
	}
	ci, _ := f.q.Pop()
	return ci
}

// skip discards n pixels, used for the fine horizontal scroll.
func (f *rowFetcher) skip(n int) {
	for i := 0; i < n; i++ {
		f.next()
	}
}
