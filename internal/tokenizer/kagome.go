package tokenizer

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

type kagomeBackend struct {
	t *tokenizer.Tokenizer
}

// NewKagomeFactory builds a kagome tokenizer over the IPA dictionary.
// Loading the dictionary takes a noticeable moment, which is why Service
// defers it to Init.
func NewKagomeFactory() Factory {
	return func() (Backend, error) {
		t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
		if err != nil {
			return nil, fmt.Errorf("build kagome tokenizer: %w", err)
		}
		return &kagomeBackend{t: t}, nil
	}
}

func (k *kagomeBackend) Tokenize(text string) ([]RawToken, error) {
	ktoks := k.t.Tokenize(text)
	out := make([]RawToken, 0, len(ktoks))
	for _, kt := range ktoks {
		base, _ := kt.BaseForm()
		out = append(out, RawToken{
			Surface:  kt.Surface,
			POS:      kt.POS(),
			BaseForm: base,
			Position: kt.Position,
		})
	}
	return out, nil
}
