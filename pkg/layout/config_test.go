package layout_test

import (
	"testing"

	"github.com/sugilayout/sugilayout/pkg/layout"
	"github.com/sugilayout/sugilayout/pkg/layouterr"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := layout.DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should validate: %v", err)
	}
}

func TestConfigValidateRejectsNegativeSep(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.NodeSep = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for negative NodeSep")
	}
	if layouterr.GetCode(err) != layouterr.ErrCodeInvalidInput {
		t.Errorf("expected ErrCodeInvalidInput, got %v", layouterr.GetCode(err))
	}
}

func TestConfigValidateRejectsUnknownRankDir(t *testing.T) {
	cfg := layout.DefaultConfig()
	cfg.RankDir = "NE"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown RankDir")
	}
}
