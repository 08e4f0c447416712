package models_test

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"rummy-gateway-backend/internal/models"
)

var txnIDShape = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestGenerateTxnIDFormat(t *testing.T) {
	id := models.GenerateTxnID()

	if !txnIDShape.MatchString(id) {
		t.Fatalf("Transaction id %q does not match the 8-4-4-4-12 hex shape", id)
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("Transaction id %q is not a valid UUID: %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("Expected version 7, got %d", parsed.Version())
	}
	if parsed.Variant() != uuid.RFC4122 {
		t.Errorf("Expected RFC 4122 variant, got %v", parsed.Variant())
	}
}

func TestGenerateTxnIDTimeOrdering(t *testing.T) {
	first := models.GenerateTxnID()
	time.Sleep(2 * time.Millisecond)
	second := models.GenerateTxnID()

	if leading48(t, first) >= leading48(t, second) {
		t.Errorf("Ids 2ms apart should order by timestamp: %s then %s", first, second)
	}
}

func TestGenerateTxnIDUniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := models.GenerateTxnID()
		if _, ok := seen[id]; ok {
			t.Fatalf("Duplicate transaction id after %d calls: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func leading48(t *testing.T, id string) uint64 {
	t.Helper()
	hex := strings.ReplaceAll(id, "-", "")[:12]
	value, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		t.Fatalf("Cannot parse leading 48 bits of %q: %v", id, err)
	}
	return value
}

func TestGenerateDeckSingle(t *testing.T) {
	deck := models.GenerateDeck(1)

	if len(deck) != 52 {
		t.Fatalf("Expected 52 cards, got %d", len(deck))
	}

	ids := make(map[int]struct{}, 52)
	vals := make(map[string]struct{}, 52)
	for _, card := range deck {
		if card.ID < 0 || card.ID > 51 {
			t.Errorf("Card id %d out of range 0..51", card.ID)
		}
		ids[card.ID] = struct{}{}
		vals[card.RVal] = struct{}{}
	}

	if len(ids) != 52 {
		t.Errorf("Expected 52 unique ids, got %d", len(ids))
	}
	if len(vals) != 52 {
		t.Errorf("Expected all 52 suit+rank combinations, got %d", len(vals))
	}
}

func TestGenerateDeckDouble(t *testing.T) {
	deck := models.GenerateDeck(2)

	if len(deck) != 104 {
		t.Fatalf("Expected 104 cards, got %d", len(deck))
	}

	ids := make(map[int]struct{}, 104)
	for _, card := range deck {
		if card.ID < 0 || card.ID > 103 {
			t.Errorf("Card id %d out of range 0..103", card.ID)
		}
		ids[card.ID] = struct{}{}
	}
	if len(ids) != 104 {
		t.Errorf("Expected 104 unique ids, got %d", len(ids))
	}
}

func TestBetRecordValidate(t *testing.T) {
	bet := &models.BetRecord{
		ID:        7,
		BetAmount: 12.5,
		GameID:    "G1",
		SocketID:  "S1",
		UserID:    "U1",
	}
	if err := bet.Validate(); err != nil {
		t.Errorf("Valid bet should pass validation: %v", err)
	}

	var nilBet *models.BetRecord
	if err := nilBet.Validate(); err == nil {
		t.Error("Nil bet should fail validation")
	}

	missingUser := &models.BetRecord{ID: 7, GameID: "G1"}
	if err := missingUser.Validate(); err == nil {
		t.Error("Bet without user id should fail validation")
	}
}
