package board

// Zobrist keys for hashing piece placement.
// Uses a PRNG with fixed seed for reproducibility.
var zobristPiece [2][6][64]uint64

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234) // Fixed seed

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := 0; sq < 64; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
}

// Hash returns a Zobrist hash of the piece placement alone. Side to
// move, castling rights and en-passant state are deliberately not part
// of the key: repetition detection compares placement only.
func (b *Board) Hash() uint64 {
	var hash uint64
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b[row][col]
			if p == NoPiece {
				continue
			}
			hash ^= zobristPiece[p.Color()][p.Type()][row*8+col]
		}
	}
	return hash
}
