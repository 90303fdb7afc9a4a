package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"jewelclaw/internal/pricing"
	"jewelclaw/internal/storage"
)

type failingStore struct{}

func (failingStore) PricingFacts(context.Context, int64) ([]pricing.Fact, error) { return nil, nil }
func (failingStore) UpsertFact(context.Context, int64, pricing.Fact) error {
	return errors.New("db down")
}

func TestHandleSetSurfacesWriteFailure(t *testing.T) {
	b := &Bot{
		configurator: pricing.NewConfigurator(failingStore{}, zap.NewNop()),
		logger:       zap.NewNop(),
	}

	reply := b.handleSet(context.Background(), &storage.User{ID: 1}, "price set necklace 15")
	if !strings.Contains(reply, "Couldn't save") {
		t.Fatalf("write failure not surfaced: %q", reply)
	}
	if strings.Contains(reply, "Saved") {
		t.Fatalf("nothing was saved, reply claims otherwise: %q", reply)
	}
}

func TestSetReplyPartialFailure(t *testing.T) {
	reply := setReply([]string{"Making necklace: 15%"}, errors.New("db down"))
	if !strings.Contains(reply, "Making necklace: 15%") {
		t.Fatalf("saved keys missing from reply: %q", reply)
	}
	if !strings.Contains(reply, "could not be saved") {
		t.Fatalf("partial failure not surfaced: %q", reply)
	}
}

func TestSetReplySuccess(t *testing.T) {
	reply := setReply([]string{"GST: 3%"}, nil)
	if strings.Contains(reply, "could not be saved") {
		t.Fatalf("spurious warning on success: %q", reply)
	}
	if !strings.Contains(reply, "GST: 3%") {
		t.Fatalf("saved key missing: %q", reply)
	}
}
