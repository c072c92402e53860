package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/okian/madness/internal/domain/model"
)

// DateLayout is the feed's YYYYMMDD date encoding.
const DateLayout = "20060102"

const gameColumns = 8

// ParseTeams reads headerless "id,name" rows. Names are trimmed.
func ParseTeams(r io.Reader) ([]model.Team, error) {
	var teams []model.Team
	err := eachRow(r, 2, func(line int, rec []string) error {
		id, err := atoi(rec[0])
		if err != nil {
			return fmt.Errorf("%w: line %d: team id: %v", ErrParse, line, err)
		}
		name := strings.TrimSpace(rec[1])
		if name == "" {
			return fmt.Errorf("%w: line %d: empty team name", ErrParse, line)
		}
		teams = append(teams, model.Team{ID: id, Name: name})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

// ParseGames reads headerless 8-column game rows:
// day, YYYYMMDD, team1 id, team1 homefield, team1 score, team2 id, team2 homefield, team2 score.
func ParseGames(r io.Reader) ([]model.Game, error) {
	var games []model.Game
	err := eachRow(r, gameColumns, func(line int, rec []string) error {
		g, err := parseGame(rec)
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrParse, line, err)
		}
		games = append(games, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

func parseGame(rec []string) (model.Game, error) {
	var (
		g    model.Game
		ints [gameColumns]int
	)
	for i, f := range rec {
		if i == 1 {
			continue
		}
		v, err := atoi(f)
		if err != nil {
			return g, fmt.Errorf("column %d: %v", i+1, err)
		}
		ints[i] = v
	}
	date, err := time.Parse(DateLayout, strings.TrimSpace(rec[1]))
	if err != nil {
		return g, fmt.Errorf("date: %v", err)
	}
	hf1, err := model.ParseHomefield(ints[3])
	if err != nil {
		return g, err
	}
	hf2, err := model.ParseHomefield(ints[6])
	if err != nil {
		return g, err
	}
	return model.Game{
		Day:            ints[0],
		Date:           date,
		Team1ID:        ints[2],
		Team1Homefield: hf1,
		Team1Score:     ints[4],
		Team2ID:        ints[5],
		Team2Homefield: hf2,
		Team2Score:     ints[7],
	}, nil
}

func eachRow(r io.Reader, columns int, fn func(line int, rec []string) error) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = columns
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrParse, err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(line, rec); err != nil {
			return err
		}
	}
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
