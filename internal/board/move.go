package board

import "fmt"

// Move encodes a chess move in 16 bits:
// bits 0-5:  from square (0-63)
// bits 6-11: to square (0-63)
// bits 12-15: flag
//
// Flag values follow the standard 4-bit move-flag scheme: bit 3 is set iff
// the move is a promotion, bit 2 is set iff the move is a capture.
// EN_PASSANT (5) is the one exception to the capture-bit rule — it is a
// capture but only bit 0 is set, so callers must test it by explicit
// equality rather than by masking bit 2.
type Move uint16

// Move flags.
const (
	FlagQuiet          uint16 = 0
	FlagDoublePawnPush uint16 = 1
	FlagKingCastle     uint16 = 2
	FlagQueenCastle    uint16 = 3
	FlagCapture        uint16 = 4
	FlagEnPassant      uint16 = 5
	FlagKnightPromo    uint16 = 8
	FlagBishopPromo    uint16 = 9
	FlagRookPromo      uint16 = 10
	FlagQueenPromo     uint16 = 11
	FlagKnightPromoCap uint16 = 12
	FlagBishopPromoCap uint16 = 13
	FlagRookPromoCap   uint16 = 14
	FlagQueenPromoCap  uint16 = 15
)

// flagPromotionBit and flagCaptureBit are the two semantic bits of the flag
// nibble; en passant is the documented exception to flagCaptureBit.
const (
	flagPromotionBit uint16 = 1 << 3
	flagCaptureBit   uint16 = 1 << 2
)

// NoMove represents an invalid or null move. The all-zero value (from=0,
// to=0, flag=QUIET) doubles as the null move per spec.
const NoMove Move = 0

// NewMove creates a quiet move.
func NewMove(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagQuiet)<<12
}

// NewDoublePawnPush creates a two-square pawn push.
func NewDoublePawnPush(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagDoublePawnPush)<<12
}

// NewCaptureMove creates a non-special capture.
func NewCaptureMove(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagCapture)<<12
}

// NewKingCastle creates a king-side castling move.
func NewKingCastle(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagKingCastle)<<12
}

// NewQueenCastle creates a queen-side castling move.
func NewQueenCastle(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagQueenCastle)<<12
}

// NewEnPassant creates an en passant capture move.
func NewEnPassant(from, to Square) Move {
	return Move(from) | Move(to)<<6 | Move(FlagEnPassant)<<12
}

// promoFlagByPiece maps a promotion PieceType to its non-capture flag.
var promoFlagByPiece = map[PieceType]uint16{
	Knight: FlagKnightPromo,
	Bishop: FlagBishopPromo,
	Rook:   FlagRookPromo,
	Queen:  FlagQueenPromo,
}

// promoCapFlagByPiece maps a promotion PieceType to its capture flag.
var promoCapFlagByPiece = map[PieceType]uint16{
	Knight: FlagKnightPromoCap,
	Bishop: FlagBishopPromoCap,
	Rook:   FlagRookPromoCap,
	Queen:  FlagQueenPromoCap,
}

// NewPromotion creates a non-capture promotion move.
func NewPromotion(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promoFlagByPiece[promo])<<12
}

// NewPromotionCapture creates a capturing promotion move.
func NewPromotionCapture(from, to Square, promo PieceType) Move {
	return Move(from) | Move(to)<<6 | Move(promoCapFlagByPiece[promo])<<12
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Flag returns the raw 4-bit flag nibble.
func (m Move) Flag() uint16 {
	return uint16(m>>12) & 0xF
}

// Promotion returns the promotion piece type. Only valid if IsPromotion().
func (m Move) Promotion() PieceType {
	switch m.Flag() &^ flagCaptureBit {
	case FlagKnightPromo:
		return Knight
	case FlagBishopPromo:
		return Bishop
	case FlagRookPromo:
		return Rook
	case FlagQueenPromo:
		return Queen
	default:
		return NoPieceType
	}
}

// IsPromotion returns true if this move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Flag()&flagPromotionBit != 0
}

// IsCastling returns true if this is a castling move.
func (m Move) IsCastling() bool {
	f := m.Flag()
	return f == FlagKingCastle || f == FlagQueenCastle
}

// IsKingCastle returns true if this castles king-side.
func (m Move) IsKingCastle() bool {
	return m.Flag() == FlagKingCastle
}

// IsQueenCastle returns true if this castles queen-side.
func (m Move) IsQueenCastle() bool {
	return m.Flag() == FlagQueenCastle
}

// IsEnPassant returns true if this is an en passant capture. EN_PASSANT (5)
// does not carry the capture bit, so it must be tested by explicit equality.
func (m Move) IsEnPassant() bool {
	return m.Flag() == FlagEnPassant
}

// IsDoublePawnPush returns true if this is a two-square pawn push.
func (m Move) IsDoublePawnPush() bool {
	return m.Flag() == FlagDoublePawnPush
}

// IsCapture returns true if the move flag marks a capture, including en
// passant (the one flag value that is a capture without the capture bit set).
func (m Move) IsCapture() bool {
	return m.Flag()&flagCaptureBit != 0 || m.IsEnPassant()
}

// IsQuiet returns true if this is not a capture or promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && !m.IsPromotion()
}

// String returns the UCI format of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}

	s := m.From().String() + m.To().String()

	if m.IsPromotion() {
		promoChars := map[PieceType]byte{Knight: 'n', Bishop: 'b', Rook: 'r', Queen: 'q'}
		s += string(promoChars[m.Promotion()])
	}

	return s
}

// ParseMove parses a UCI format move string against a position, inferring
// the correct flag (capture/en-passant/castling/double-push) from context.
func ParseMove(s string, pos *Position) (Move, error) {
	if s == "0000" {
		return NoMove, nil
	}

	if len(s) < 4 {
		return NoMove, fmt.Errorf("invalid move string: %s", s)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, err
	}

	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, err
	}

	piece := pos.PieceAt(from)
	if piece == NoPiece {
		return NoMove, fmt.Errorf("no piece at %s", from)
	}
	pt := piece.Type()
	isCapture := !pos.IsEmpty(to)

	if len(s) == 5 {
		var promo PieceType
		switch s[4] {
		case 'n':
			promo = Knight
		case 'b':
			promo = Bishop
		case 'r':
			promo = Rook
		case 'q':
			promo = Queen
		default:
			return NoMove, fmt.Errorf("invalid promotion piece: %c", s[4])
		}
		if isCapture {
			return NewPromotionCapture(from, to, promo), nil
		}
		return NewPromotion(from, to, promo), nil
	}

	if pt == King {
		diff := int(to) - int(from)
		if diff == 2 {
			return NewKingCastle(from, to), nil
		}
		if diff == -2 {
			return NewQueenCastle(from, to), nil
		}
	}

	if pt == Pawn {
		if to == pos.EnPassant && pos.EnPassant != NoSquare {
			return NewEnPassant(from, to), nil
		}
		if abs(int(to)-int(from)) == 16 {
			return NewDoublePawnPush(from, to), nil
		}
	}

	if isCapture {
		return NewCaptureMove(from, to), nil
	}
	return NewMove(from, to), nil
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Set sets the move at index i.
func (ml *MoveList) Set(i int, m Move) {
	ml.moves[i] = m
}

// Swap swaps two moves in the list.
func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores information needed to undo a move.
type UndoInfo struct {
	CapturedPiece  Piece
	CastlingRights CastlingRights
	EnPassant      Square
	HalfMoveClock  int
	Hash           uint64
	PawnKey        uint64
	Checkers       Bitboard
	KingSquare     [2]Square
	Pieces         [2][6]Bitboard
	Occupied       [2]Bitboard
	AllOccupied    Bitboard
	Valid          bool
}
