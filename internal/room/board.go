package room

import (
	"strconv"

	"github.com/google/uuid"
)

func slotID(index int) string {
	return strconv.Itoa(index + 1)
}

// BlankAnswer returns an unrevealed zero-point answer slot with a fresh id.
func BlankAnswer() Answer {
	return Answer{ID: uuid.NewString()}
}

// RevealedPoints sums points over revealed answers, scaled by the room
// multiplier.
func RevealedPoints(b Board, multiplier int) int {
	total := 0
	for _, a := range b.Answers {
		if a.Revealed {
			total += a.Points * multiplier
		}
	}
	return total
}

// ResetBoardValues blanks every answer slot and clears the question and
// control team. The slot count is preserved; the buzzer open flag is left
// alone (closing it is a separate host intent).
func ResetBoardValues(b Board) Board {
	answers := make([]Answer, 0, len(b.Answers))
	for _, a := range b.Answers {
		answers = append(answers, Answer{ID: a.ID})
	}
	return Board{
		Answers:    answers,
		BuzzerOpen: b.BuzzerOpen,
	}
}

// GeneratedAnswer is one weighted answer from the question source.
type GeneratedAnswer struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

// ApplyGeneratedAnswers builds a fresh unrevealed board from a generated
// question. Short answer lists are padded with blank slots up to
// BoardSlots; longer lists grow the board rather than being truncated.
func ApplyGeneratedAnswers(b Board, question string, entries []GeneratedAnswer) Board {
	answers := make([]Answer, 0, BoardSlots)
	for _, e := range entries {
		points := e.Points
		if points < 0 {
			points = 0
		}
		answers = append(answers, Answer{
			ID:     uuid.NewString(),
			Text:   e.Text,
			Points: points,
		})
	}
	for len(answers) < BoardSlots {
		answers = append(answers, BlankAnswer())
	}
	return Board{
		Question:   question,
		Answers:    answers,
		BuzzerOpen: b.BuzzerOpen,
	}
}

// AddAnswerSlot appends one blank slot. Slot count only ever grows.
func AddAnswerSlot(b Board) Board {
	b.Answers = append(append([]Answer(nil), b.Answers...), BlankAnswer())
	return b
}
