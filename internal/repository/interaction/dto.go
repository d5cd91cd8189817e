package interaction

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/makersmarket/discovery/internal/domain"
	dominter "github.com/makersmarket/discovery/internal/domain/interaction"
)

// interactionRow is the JSON list-entry shape of one engagement event.
type interactionRow struct {
	UserID string    `json:"user_id"`
	ItemID string    `json:"item_id"`
	Kind   string    `json:"kind"`
	At     time.Time `json:"at"`
}

// searchRow is the JSON list-entry shape of one search history entry.
type searchRow struct {
	UserID      string    `json:"user_id"`
	Term        string    `json:"term"`
	ResultCount int       `json:"result_count"`
	At          time.Time `json:"at"`
}

func encodeInteraction(row dominter.Interaction) (string, error) {
	b, err := json.Marshal(interactionRow{
		UserID: row.UserID(), ItemID: row.ItemID(),
		Kind: string(row.Kind()), At: row.At(),
	})
	if err != nil {
		return "", fmt.Errorf("encode interaction: %w", err)
	}
	return string(b), nil
}

func decodeInteraction(raw string) (dominter.Interaction, error) {
	var row interactionRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return dominter.Interaction{}, fmt.Errorf("%w: interaction row: %v", domain.ErrDecode, err)
	}
	kind, err := dominter.ParseKind(row.Kind)
	if err != nil {
		return dominter.Interaction{}, fmt.Errorf("%w: interaction row: %v", domain.ErrDecode, err)
	}
	return dominter.New(row.UserID, row.ItemID, kind, row.At), nil
}

func encodeSearch(row dominter.SearchRecord) (string, error) {
	b, err := json.Marshal(searchRow{
		UserID: row.UserID(), Term: row.Term(),
		ResultCount: row.ResultCount(), At: row.At(),
	})
	if err != nil {
		return "", fmt.Errorf("encode search record: %w", err)
	}
	return string(b), nil
}

func decodeSearch(raw string) (dominter.SearchRecord, error) {
	var row searchRow
	if err := json.Unmarshal([]byte(raw), &row); err != nil {
		return dominter.SearchRecord{}, fmt.Errorf("%w: search row: %v", domain.ErrDecode, err)
	}
	return dominter.NewSearchRecord(row.UserID, row.Term, row.ResultCount, row.At), nil
}
