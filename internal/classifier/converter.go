package classifier

import (
	"fmt"
	"sync"

	"github.com/liuzl/gocc"
)

var (
	t2s     *gocc.OpenCC // Traditional to Simplified
	t2sOnce sync.Once
	t2sErr  error
)

// simplifier loads the OpenCC dictionaries on first use, so packages that
// never convert text pay nothing for them.
func simplifier() (*gocc.OpenCC, error) {
	t2sOnce.Do(func() {
		t2s, t2sErr = gocc.New("t2s")
		if t2sErr != nil {
			t2sErr = fmt.Errorf("failed to initialize t2s converter: %w", t2sErr)
		}
	})
	return t2s, t2sErr
}

// ToSimplified converts traditional Chinese to simplified Chinese
func ToSimplified(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	conv, err := simplifier()
	if err != nil {
		return "", err
	}
	return conv.Convert(text)
}

// ToSimplifiedArray converts every element with ToSimplified.
func ToSimplifiedArray(texts []string) ([]string, error) {
	out := make([]string, len(texts))
	for i, text := range texts {
		s, err := ToSimplified(text)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}
