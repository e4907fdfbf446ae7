package usecase

import (
	"fmt"
	"sort"

	"github.com/speclens/backend/internal/domain"
	"github.com/speclens/backend/internal/validation"
)

// validateAuthoredScores checks every entry and rejects duplicate (product, criterion) pairs
func validateAuthoredScores(scores []domain.AuthoredScore) error {
	seen := make(map[[2]string]bool, len(scores))
	for i, s := range scores {
		if err := validation.ValidateStruct(s); err != nil {
			return fmt.Errorf("%w: entry %d: %v", domain.ErrInvalidAuthoredScore, i, err)
		}
		key := [2]string{s.ProductID, s.Criterion}
		if seen[key] {
			return fmt.Errorf("%w: duplicate score for %s on %s", domain.ErrInvalidAuthoredScore, s.ProductID, s.Criterion)
		}
		seen[key] = true
	}
	return nil
}

// leaderboard sorts the entries of one criterion and assigns 1-based positions
func leaderboard(criterion string, scores []domain.AuthoredScore) []domain.RankedEntry {
	entries := make([]domain.RankedEntry, 0)
	for _, s := range scores {
		if s.Criterion != criterion {
			continue
		}
		entries = append(entries, domain.RankedEntry{
			ProductID:     s.ProductID,
			Score:         s.Score,
			Justification: s.Justification,
		})
	}

	entries = rankAndLimit(entries, func(e domain.RankedEntry) rankKey {
		return rankKey{id: e.ProductID, score: e.Score}
	}, 0)
	for i := range entries {
		entries[i].Position = i + 1
	}
	return entries
}

// RankByCriterion validates the authored scores and returns the leaderboard for one
// criterion, sorted by score descending then product id. An unknown criterion yields an
// empty leaderboard.
func RankByCriterion(criterion string, scores []domain.AuthoredScore) ([]domain.RankedEntry, error) {
	if err := validateAuthoredScores(scores); err != nil {
		return nil, err
	}
	return leaderboard(criterion, scores), nil
}

// CompetitiveRanking holds validated leaderboards for every authored criterion
type CompetitiveRanking struct {
	criteria []string
	boards   map[string][]domain.RankedEntry
}

// NewCompetitiveRanking validates scores and builds every leaderboard once
func NewCompetitiveRanking(scores []domain.AuthoredScore) (*CompetitiveRanking, error) {
	if err := validateAuthoredScores(scores); err != nil {
		return nil, err
	}

	boards := make(map[string][]domain.RankedEntry)
	for _, s := range scores {
		if _, ok := boards[s.Criterion]; !ok {
			boards[s.Criterion] = leaderboard(s.Criterion, scores)
		}
	}

	criteria := make([]string, 0, len(boards))
	for c := range boards {
		criteria = append(criteria, c)
	}
	sort.Strings(criteria)

	return &CompetitiveRanking{criteria: criteria, boards: boards}, nil
}

// Criteria returns the criterion names in ascending order
func (r *CompetitiveRanking) Criteria() []string {
	out := make([]string, len(r.criteria))
	copy(out, r.criteria)
	return out
}

// Rank returns the leaderboard for criterion
func (r *CompetitiveRanking) Rank(criterion string) ([]domain.RankedEntry, error) {
	board, ok := r.boards[criterion]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrCriterionNotFound, criterion)
	}
	out := make([]domain.RankedEntry, len(board))
	copy(out, board)
	return out, nil
}

// Leaderboards returns a copy of every leaderboard keyed by criterion
func (r *CompetitiveRanking) Leaderboards() map[string][]domain.RankedEntry {
	out := make(map[string][]domain.RankedEntry, len(r.boards))
	for c, board := range r.boards {
		entries := make([]domain.RankedEntry, len(board))
		copy(entries, board)
		out[c] = entries
	}
	return out
}

// TopPerformer returns the first entry of a criterion's leaderboard
func (r *CompetitiveRanking) TopPerformer(criterion string) (domain.RankedEntry, error) {
	board, ok := r.boards[criterion]
	if !ok || len(board) == 0 {
		return domain.RankedEntry{}, fmt.Errorf("%w: %s", domain.ErrCriterionNotFound, criterion)
	}
	return board[0], nil
}

// Standings sums each product's position across all criteria. A product missing from a
// criterion is placed one past the end of that leaderboard. Sorted by rank sum ascending,
// then product id.
func (r *CompetitiveRanking) Standings() []domain.OverallStanding {
	products := make(map[string]bool)
	for _, board := range r.boards {
		for _, e := range board {
			products[e.ProductID] = true
		}
	}

	standings := make([]domain.OverallStanding, 0, len(products))
	for id := range products {
		standing := domain.OverallStanding{ProductID: id, Positions: make(map[string]int, len(r.criteria))}
		for _, criterion := range r.criteria {
			board := r.boards[criterion]
			position := len(board) + 1
			for _, e := range board {
				if e.ProductID == id {
					position = e.Position
					break
				}
			}
			standing.Positions[criterion] = position
			standing.RankSum += position
		}
		standings = append(standings, standing)
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].RankSum != standings[j].RankSum {
			return standings[i].RankSum < standings[j].RankSum
		}
		return standings[i].ProductID < standings[j].ProductID
	})
	return standings
}

// OverallLeader returns the product with the lowest combined rank
func (r *CompetitiveRanking) OverallLeader() (domain.OverallStanding, error) {
	standings := r.Standings()
	if len(standings) == 0 {
		return domain.OverallStanding{}, fmt.Errorf("%w: no authored scores", domain.ErrCriterionNotFound)
	}
	return standings[0], nil
}
