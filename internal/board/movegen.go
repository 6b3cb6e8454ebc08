package board

// GenerateLegalMoves generates all legal moves for the position.
func (p *Position) GenerateLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return p.filterLegalMoves(ml)
}

// GeneratePseudoLegalMoves generates all pseudo-legal moves (may leave king in check).
func (p *Position) GeneratePseudoLegalMoves() *MoveList {
	ml := NewMoveList()
	p.generateAllMoves(ml)
	return ml
}

// GenerateCaptures generates all capture moves (including promotions and EP).
func (p *Position) GenerateCaptures() *MoveList {
	ml := NewMoveList()
	p.generateCaptures(ml)
	return p.filterLegalMoves(ml)
}

// GenerateQuiets generates all non-capture, non-promotion moves.
func (p *Position) GenerateQuiets() *MoveList {
	ml := NewMoveList()
	p.generateQuiets(ml)
	return p.filterLegalMoves(ml)
}

// addSlider adds one quiet or capture move per target bit in attacks,
// splitting the set by occupancy of the enemy side up front.
func addSlider(ml *MoveList, from Square, quiets, captures Bitboard) {
	for quiets != 0 {
		to := quiets.PopLSB()
		ml.Add(NewMove(from, to))
	}
	for captures != 0 {
		to := captures.PopLSB()
		ml.Add(NewCaptureMove(from, to))
	}
}

// generateAllMoves generates all pseudo-legal moves.
func (p *Position) generateAllMoves(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	occupied := p.AllOccupied
	enemies := p.Occupied[them]

	p.generatePawnMoves(ml, us, enemies, occupied, true, true)

	knights := p.Pieces[us][Knight]
	for knights != 0 {
		from := knights.PopLSB()
		reach := KnightAttacks(from) &^ p.Occupied[us]
		addSlider(ml, from, reach&^enemies, reach&enemies)
	}

	bishops := p.Pieces[us][Bishop]
	for bishops != 0 {
		from := bishops.PopLSB()
		reach := BishopAttacks(from, occupied) &^ p.Occupied[us]
		addSlider(ml, from, reach&^enemies, reach&enemies)
	}

	rooks := p.Pieces[us][Rook]
	for rooks != 0 {
		from := rooks.PopLSB()
		reach := RookAttacks(from, occupied) &^ p.Occupied[us]
		addSlider(ml, from, reach&^enemies, reach&enemies)
	}

	queens := p.Pieces[us][Queen]
	for queens != 0 {
		from := queens.PopLSB()
		reach := QueenAttacks(from, occupied) &^ p.Occupied[us]
		addSlider(ml, from, reach&^enemies, reach&enemies)
	}

	from := p.KingSquare[us]
	reach := KingAttacks(from) &^ p.Occupied[us]
	addSlider(ml, from, reach&^enemies, reach&enemies)

	p.generateCastlingMoves(ml, us)
}

// generateQuiets generates only non-capture, non-promotion moves.
func (p *Position) generateQuiets(ml *MoveList) {
	us := p.SideToMove
	occupied := p.AllOccupied
	empty := ^occupied

	p.generatePawnMoves(ml, us, 0, occupied, true, false)

	for _, pt := range []PieceType{Knight, Bishop, Rook, Queen} {
		bb := p.Pieces[us][pt]
		for bb != 0 {
			from := bb.PopLSB()
			var reach Bitboard
			switch pt {
			case Knight:
				reach = KnightAttacks(from)
			case Bishop:
				reach = BishopAttacks(from, occupied)
			case Rook:
				reach = RookAttacks(from, occupied)
			case Queen:
				reach = QueenAttacks(from, occupied)
			}
			reach &= empty
			for reach != 0 {
				to := reach.PopLSB()
				ml.Add(NewMove(from, to))
			}
		}
	}

	from := p.KingSquare[us]
	reach := KingAttacks(from) & empty
	for reach != 0 {
		to := reach.PopLSB()
		ml.Add(NewMove(from, to))
	}

	p.generateCastlingMoves(ml, us)
}

// generatePawnMoves generates pawn pushes, captures, promotions and en
// passant. includeQuiets/includeCaptures gate which subsets are emitted;
// non-capture promotions belong to the captures subset.
func (p *Position) generatePawnMoves(ml *MoveList, us Color, enemies, occupied Bitboard, includeQuiets, includeCaptures bool) {
	pawns := p.Pieces[us][Pawn]
	empty := ^occupied

	var push1, push2, attackL, attackR Bitboard
	var promotionRank Bitboard
	var pushDir int

	if us == White {
		push1 = pawns.North() & empty
		push2 = (push1 & Rank3).North() & empty
		attackL = pawns.NorthWest() & enemies
		attackR = pawns.NorthEast() & enemies
		promotionRank = Rank8
		pushDir = 8
	} else {
		push1 = pawns.South() & empty
		push2 = (push1 & Rank6).South() & empty
		attackL = pawns.SouthWest() & enemies
		attackR = pawns.SouthEast() & enemies
		promotionRank = Rank1
		pushDir = -8
	}

	if includeQuiets {
		nonPromo := push1 & ^promotionRank
		for nonPromo != 0 {
			to := nonPromo.PopLSB()
			from := Square(int(to) - pushDir)
			ml.Add(NewMove(from, to))
		}

		for push2 != 0 {
			to := push2.PopLSB()
			from := Square(int(to) - 2*pushDir)
			ml.Add(NewDoublePawnPush(from, to))
		}
	}

	promoPush := push1 & promotionRank
	if includeCaptures {
		for promoPush != 0 {
			to := promoPush.PopLSB()
			from := Square(int(to) - pushDir)
			addPromotions(ml, from, to, false)
		}
	}

	if includeCaptures {
		nonPromoL := attackL & ^promotionRank
		for nonPromoL != 0 {
			to := nonPromoL.PopLSB()
			from := Square(int(to) - pushDir + 1)
			ml.Add(NewCaptureMove(from, to))
		}

		nonPromoR := attackR & ^promotionRank
		for nonPromoR != 0 {
			to := nonPromoR.PopLSB()
			from := Square(int(to) - pushDir - 1)
			ml.Add(NewCaptureMove(from, to))
		}

		promoL := attackL & promotionRank
		for promoL != 0 {
			to := promoL.PopLSB()
			from := Square(int(to) - pushDir + 1)
			addPromotions(ml, from, to, true)
		}

		promoR := attackR & promotionRank
		for promoR != 0 {
			to := promoR.PopLSB()
			from := Square(int(to) - pushDir - 1)
			addPromotions(ml, from, to, true)
		}

		if p.EnPassant != NoSquare {
			epBB := SquareBB(p.EnPassant)
			var epAttackers Bitboard
			if us == White {
				epAttackers = (epBB.SouthWest() | epBB.SouthEast()) & pawns
			} else {
				epAttackers = (epBB.NorthWest() | epBB.NorthEast()) & pawns
			}
			for epAttackers != 0 {
				from := epAttackers.PopLSB()
				ml.Add(NewEnPassant(from, p.EnPassant))
			}
		}
	}
}

// addPromotions adds all four promotion moves, capturing or not.
func addPromotions(ml *MoveList, from, to Square, capture bool) {
	if capture {
		ml.Add(NewPromotionCapture(from, to, Queen))
		ml.Add(NewPromotionCapture(from, to, Rook))
		ml.Add(NewPromotionCapture(from, to, Bishop))
		ml.Add(NewPromotionCapture(from, to, Knight))
		return
	}
	ml.Add(NewPromotion(from, to, Queen))
	ml.Add(NewPromotion(from, to, Rook))
	ml.Add(NewPromotion(from, to, Bishop))
	ml.Add(NewPromotion(from, to, Knight))
}

// generateCastlingMoves generates castling moves.
func (p *Position) generateCastlingMoves(ml *MoveList, us Color) {
	them := us.Other()

	if us == White {
		if p.CastlingRights&WhiteKingSideCastle != 0 {
			if p.AllOccupied&((1<<F1)|(1<<G1)) == 0 {
				if !p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(F1, them) && !p.IsSquareAttacked(G1, them) {
					ml.Add(NewKingCastle(E1, G1))
				}
			}
		}
		if p.CastlingRights&WhiteQueenSideCastle != 0 {
			if p.AllOccupied&((1<<B1)|(1<<C1)|(1<<D1)) == 0 {
				if !p.IsSquareAttacked(E1, them) && !p.IsSquareAttacked(D1, them) && !p.IsSquareAttacked(C1, them) {
					ml.Add(NewQueenCastle(E1, C1))
				}
			}
		}
	} else {
		if p.CastlingRights&BlackKingSideCastle != 0 {
			if p.AllOccupied&((1<<F8)|(1<<G8)) == 0 {
				if !p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(F8, them) && !p.IsSquareAttacked(G8, them) {
					ml.Add(NewKingCastle(E8, G8))
				}
			}
		}
		if p.CastlingRights&BlackQueenSideCastle != 0 {
			if p.AllOccupied&((1<<B8)|(1<<C8)|(1<<D8)) == 0 {
				if !p.IsSquareAttacked(E8, them) && !p.IsSquareAttacked(D8, them) && !p.IsSquareAttacked(C8, them) {
					ml.Add(NewQueenCastle(E8, C8))
				}
			}
		}
	}
}

// generateCaptures generates capture moves only (including EP and all promotions).
func (p *Position) generateCaptures(ml *MoveList) {
	us := p.SideToMove
	them := us.Other()
	enemies := p.Occupied[them]
	occupied := p.AllOccupied

	p.generatePawnMoves(ml, us, enemies, occupied, false, true)

	for _, pt := range []PieceType{Knight, Bishop, Rook, Queen} {
		bb := p.Pieces[us][pt]
		for bb != 0 {
			from := bb.PopLSB()
			var reach Bitboard
			switch pt {
			case Knight:
				reach = KnightAttacks(from)
			case Bishop:
				reach = BishopAttacks(from, occupied)
			case Rook:
				reach = RookAttacks(from, occupied)
			case Queen:
				reach = QueenAttacks(from, occupied)
			}
			reach &= enemies
			for reach != 0 {
				to := reach.PopLSB()
				ml.Add(NewCaptureMove(from, to))
			}
		}
	}

	from := p.KingSquare[us]
	reach := KingAttacks(from) & enemies
	for reach != 0 {
		to := reach.PopLSB()
		ml.Add(NewCaptureMove(from, to))
	}
}

// filterLegalMoves filters out illegal moves (those that leave king in check).
func (p *Position) filterLegalMoves(ml *MoveList) *MoveList {
	result := NewMoveList()

	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if p.IsLegal(m) {
			result.Add(m)
		}
	}

	return result
}

// PseudoLegal returns whether m is among the pseudo-legal moves in this
// position. Used to validate a cached or TT-provided move before trusting it.
func (p *Position) PseudoLegal(m Move) bool {
	if m == NoMove {
		return false
	}
	ml := p.GeneratePseudoLegalMoves()
	return ml.Contains(m)
}

// IsLegal returns true if the move is legal (doesn't leave king in check).
// Uses make/unmake for guaranteed correctness.
func (p *Position) IsLegal(m Move) bool {
	us := p.SideToMove
	them := us.Other()
	from := m.From()
	ksq := p.KingSquare[us]

	if from == ksq && !m.IsCastling() {
		occ := p.AllOccupied &^ SquareBB(from)
		return p.AttackersByColor(m.To(), them, occ) == 0
	}

	undo := p.MakeMove(m)
	if !undo.Valid {
		return false
	}

	attacked := p.IsSquareAttacked(ksq, them)
	p.UnmakeMove(m, undo)

	return !attacked
}

// MakeMove applies a move to the position and returns undo information.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{
		CapturedPiece:  NoPiece,
		CastlingRights: p.CastlingRights,
		EnPassant:      p.EnPassant,
		HalfMoveClock:  p.HalfMoveClock,
		Hash:           p.Hash,
		PawnKey:        p.PawnKey,
		Checkers:       p.Checkers,
		Valid:          false,
	}

	us := p.SideToMove
	them := us.Other()
	from := m.From()
	to := m.To()
	piece := p.PieceAt(from)

	if piece == NoPiece {
		return undo
	}

	undo.Valid = true
	pt := piece.Type()

	p.Hash ^= zobristSideToMove
	p.Hash ^= zobristCastling[p.CastlingRights]

	if p.EnPassant != NoSquare {
		p.Hash ^= zobristEnPassant[p.EnPassant.File()]
	}

	p.EnPassant = NoSquare

	if m.IsEnPassant() {
		var capturedSq Square
		if us == White {
			capturedSq = to - 8
		} else {
			capturedSq = to + 8
		}
		undo.CapturedPiece = p.removePiece(capturedSq)
		p.Hash ^= zobristPiece[them][Pawn][capturedSq]
		p.PawnKey ^= zobristPiece[them][Pawn][capturedSq]
	} else if captured := p.PieceAt(to); captured != NoPiece {
		undo.CapturedPiece = captured
		p.removePiece(to)
		p.Hash ^= zobristPiece[them][captured.Type()][to]
		if captured.Type() == Pawn {
			p.PawnKey ^= zobristPiece[them][Pawn][to]
		}
	}

	p.movePiece(from, to)
	p.Hash ^= zobristPiece[us][pt][from]
	p.Hash ^= zobristPiece[us][pt][to]
	if pt == Pawn {
		p.PawnKey ^= zobristPiece[us][Pawn][from]
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][Pawn] &^= SquareBB(to)
		p.Pieces[us][promoPt] |= SquareBB(to)
		p.Hash ^= zobristPiece[us][Pawn][to]
		p.Hash ^= zobristPiece[us][promoPt][to]
		p.PawnKey ^= zobristPiece[us][Pawn][to]
	}

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if m.IsKingCastle() {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookFrom, rookTo)
		p.Hash ^= zobristPiece[us][Rook][rookFrom]
		p.Hash ^= zobristPiece[us][Rook][rookTo]
	}

	if pt == King {
		if us == White {
			p.CastlingRights &^= WhiteKingSideCastle | WhiteQueenSideCastle
		} else {
			p.CastlingRights &^= BlackKingSideCastle | BlackQueenSideCastle
		}
	}

	if from == A1 || to == A1 {
		p.CastlingRights &^= WhiteQueenSideCastle
	}
	if from == H1 || to == H1 {
		p.CastlingRights &^= WhiteKingSideCastle
	}
	if from == A8 || to == A8 {
		p.CastlingRights &^= BlackQueenSideCastle
	}
	if from == H8 || to == H8 {
		p.CastlingRights &^= BlackKingSideCastle
	}

	p.Hash ^= zobristCastling[p.CastlingRights]

	if m.IsDoublePawnPush() {
		epSquare := Square((int(from) + int(to)) / 2)
		p.EnPassant = epSquare
		p.Hash ^= zobristEnPassant[epSquare.File()]
	}

	if pt == Pawn || undo.CapturedPiece != NoPiece {
		p.HalfMoveClock = 0
	} else {
		p.HalfMoveClock++
	}

	if us == Black {
		p.FullMoveNumber++
	}

	p.SideToMove = them
	p.UpdateCheckers()

	return undo
}

// UnmakeMove undoes a move using the stored undo information.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	them := p.SideToMove
	us := them.Other()
	from := m.From()
	to := m.To()

	p.CastlingRights = undo.CastlingRights
	p.EnPassant = undo.EnPassant
	p.HalfMoveClock = undo.HalfMoveClock
	p.Hash = undo.Hash
	p.PawnKey = undo.PawnKey
	p.Checkers = undo.Checkers
	p.SideToMove = us

	if us == Black {
		p.FullMoveNumber--
	}

	if m.IsPromotion() {
		promoPt := m.Promotion()
		p.Pieces[us][promoPt] &^= SquareBB(to)
		p.Pieces[us][Pawn] |= SquareBB(to)
	}

	p.movePiece(to, from)

	if m.IsCastling() {
		var rookFrom, rookTo Square
		if m.IsKingCastle() {
			rookFrom = NewSquare(7, from.Rank())
			rookTo = NewSquare(5, from.Rank())
		} else {
			rookFrom = NewSquare(0, from.Rank())
			rookTo = NewSquare(3, from.Rank())
		}
		p.movePiece(rookTo, rookFrom)
	}

	if undo.CapturedPiece != NoPiece {
		if m.IsEnPassant() {
			var capturedSq Square
			if us == White {
				capturedSq = to - 8
			} else {
				capturedSq = to + 8
			}
			p.setPiece(undo.CapturedPiece, capturedSq)
		} else {
			p.setPiece(undo.CapturedPiece, to)
		}
	}
}

// HasLegalMoves returns true if the side to move has any legal moves.
func (p *Position) HasLegalMoves() bool {
	ml := p.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		if p.IsLegal(ml.Get(i)) {
			return true
		}
	}
	return false
}

// IsCheckmate returns true if the position is checkmate.
func (p *Position) IsCheckmate() bool {
	return p.InCheck() && !p.HasLegalMoves()
}

// IsStalemate returns true if the position is stalemate.
func (p *Position) IsStalemate() bool {
	return !p.InCheck() && !p.HasLegalMoves()
}

// IsDraw returns true if the position is a draw (stalemate, 50-move,
// insufficient material, or repetition).
func (p *Position) IsDraw() bool {
	if p.IsStalemate() {
		return true
	}
	if p.HalfMoveClock >= 100 {
		return true
	}
	if p.IsInsufficientMaterial() {
		return true
	}
	return p.isRepetition()
}

// IsRepetition reports a repeated position without generating moves, for use
// by search's non-root draw check (stalemate there is already detected by
// the empty-move-list branch after move generation).
func (p *Position) IsRepetition() bool {
	return p.isRepetition()
}

// isRepetition walks the game-history buffer backwards no further than the
// half-move clock, counting hash matches; two prior matches (three total
// including the current position) is a repetition. Captures and pawn moves
// reset the half-move clock, making earlier positions unreachable, so this
// bound is sound.
func (p *Position) isRepetition() bool {
	limit := p.HalfMoveClock + 1
	n := len(p.history)
	if limit > n {
		limit = n
	}
	// history's top entry (n-1) is the current position's own hash, pushed
	// by PushHistory after the move that reached it; start one entry back
	// so that doesn't count as the position's own first repetition. Entry
	// n-1-HalfMoveClock is the position right after the last capture or
	// pawn move, the oldest one that can still repeat.
	matches := 0
	for i := 2; i <= limit; i++ {
		if p.history[n-i] == p.Hash {
			matches++
			if matches >= 2 {
				return true
			}
		}
	}
	return false
}

// IsInsufficientMaterial returns true if neither side can checkmate.
func (p *Position) IsInsufficientMaterial() bool {
	if p.Pieces[White][Pawn]|p.Pieces[Black][Pawn] != 0 ||
		p.Pieces[White][Rook]|p.Pieces[Black][Rook] != 0 ||
		p.Pieces[White][Queen]|p.Pieces[Black][Queen] != 0 {
		return false
	}

	wKnights := p.Pieces[White][Knight].PopCount()
	wBishops := p.Pieces[White][Bishop].PopCount()
	bKnights := p.Pieces[Black][Knight].PopCount()
	bBishops := p.Pieces[Black][Bishop].PopCount()

	if wKnights+wBishops+bKnights+bBishops == 0 {
		return true
	}

	if wKnights+wBishops <= 1 && bKnights+bBishops == 0 {
		return true
	}
	if bKnights+bBishops <= 1 && wKnights+wBishops == 0 {
		return true
	}

	// K+B vs K+B with both bishops on the same color complex.
	if wKnights == 0 && bKnights == 0 && wBishops == 1 && bBishops == 1 {
		wSq := p.Pieces[White][Bishop].LSB()
		bSq := p.Pieces[Black][Bishop].LSB()
		if squareColor(wSq) == squareColor(bSq) {
			return true
		}
	}

	return false
}

// squareColor returns 0 for a dark square, 1 for a light square.
func squareColor(sq Square) int {
	return (int(sq.File()) + int(sq.Rank())) & 1
}

// Perft counts leaf nodes at the given depth from this position; used for
// move-generator verification (see SPEC_FULL.md §8, testable property 7).
func (p *Position) Perft(depth int) int64 {
	if depth == 0 {
		return 1
	}
	moves := p.GenerateLegalMoves()
	if depth == 1 {
		return int64(moves.Len())
	}
	var nodes int64
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		undo := p.MakeMove(m)
		p.PushHistory()
		nodes += p.Perft(depth - 1)
		p.PopHistory()
		p.UnmakeMove(m, undo)
	}
	return nodes
}
