package arbitration

import (
	"encoding/binary"

	"lukechampine.com/blake3"

	"github.com/ignatzorin/arbitration-backend/internal/pkg/apperror"
)

const ballotAlphabet = "12345abcdefghijklmnopqrstuvwxyz"

const (
	ballotNameLength    = 12
	maxBallotNameTrials = 16
)

// runoffBallotName выводит имя бюллетеня второго тура из имени первого и id новых выборов.
func runoffBallotName(previous string, electionID uint64, attempt int) string {
	buf := make([]byte, 0, len(previous)+16)
	buf = append(buf, previous...)
	buf = binary.BigEndian.AppendUint64(buf, electionID)
	buf = binary.BigEndian.AppendUint64(buf, uint64(attempt))
	sum := blake3.Sum256(buf)

	name := make([]byte, ballotNameLength)
	for i := range name {
		name[i] = ballotAlphabet[int(sum[i])%len(ballotAlphabet)]
	}
	return string(name)
}

func (s *session) freeRunoffBallotName(previous string, electionID uint64) (string, error) {
	for attempt := 0; attempt < maxBallotNameTrials; attempt++ {
		name := runoffBallotName(previous, electionID, attempt)
		existing, err := s.tx.Elections().FindByBallotName(s.ctx, name)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return name, nil
		}
	}
	return "", apperror.ErrBallotNameTaken
}
