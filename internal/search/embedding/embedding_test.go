package embedding

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

type mockDense struct {
	OnEmbed      func(ctx context.Context, text string, granularity string) ([]float32, error)
	OnEmbedBatch func(ctx context.Context, texts []string, granularity string) ([][]float32, error)
}

func (m *mockDense) Embed(ctx context.Context, text string, granularity string) ([]float32, error) {
	return m.OnEmbed(ctx, text, granularity)
}

func (m *mockDense) EmbedBatch(ctx context.Context, texts []string, granularity string) ([][]float32, error) {
	return m.OnEmbedBatch(ctx, texts, granularity)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and strips punctuation",
			text: "The Witness SAID: \"stop, now!\"",
			want: []string{"the", "witness", "said", "stop", "now"},
		},
		{
			name: "keeps digits, splits on apostrophes",
			text: "Section 12 wasn't signed",
			want: []string{"section", "12", "wasn", "t", "signed"},
		},
		{
			name: "empty input",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestHashSparseEncoder(t *testing.T) {
	encoder := NewHashSparseEncoder(1000)

	t.Run("deterministic output", func(t *testing.T) {
		i1, v1, err := encoder.Encode("breach of contract alleged in count two")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		i2, v2, err := encoder.Encode("breach of contract alleged in count two")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(i1, i2) || !reflect.DeepEqual(v1, v2) {
			t.Errorf("same text produced different encodings")
		}
	})

	t.Run("indices and values align", func(t *testing.T) {
		indices, values, err := encoder.Encode("one two three two three three")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(indices) != len(values) {
			t.Fatalf("got %d indices but %d values", len(indices), len(values))
		}
		var total float32
		for _, v := range values {
			total += v
		}
		if total != 6 {
			t.Errorf("values should sum to the token count 6, got %v", total)
		}
	})

	t.Run("indices stay inside the dimension and sorted", func(t *testing.T) {
		indices, _, err := encoder.Encode("plaintiff defendant exhibit deposition subpoena")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i, index := range indices {
			if index >= 1000 {
				t.Errorf("index %d out of dimension", index)
			}
			if i > 0 && indices[i-1] >= index {
				t.Errorf("indices not strictly increasing: %v", indices)
			}
		}
	})

	t.Run("empty text fails", func(t *testing.T) {
		_, _, err := encoder.Encode("  \t ")
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("expected ErrEmptyText, got %v", err)
		}
	})
}

func TestManagerRejectsEmptyText(t *testing.T) {
	called := false
	dense := &mockDense{
		OnEmbed: func(ctx context.Context, text string, granularity string) ([]float32, error) {
			called = true
			return []float32{1}, nil
		},
		OnEmbedBatch: func(ctx context.Context, texts []string, granularity string) ([][]float32, error) {
			called = true
			return [][]float32{{1}}, nil
		},
	}
	m := NewManager(dense, NewHashSparseEncoder(100))

	if _, err := m.EmbedDense(context.Background(), "", "summary"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("EmbedDense(empty) err = %v, want ErrEmptyText", err)
	}
	if _, err := m.EmbedDenseBatch(context.Background(), []string{"ok", ""}, "summary"); !errors.Is(err, ErrEmptyText) {
		t.Errorf("EmbedDenseBatch with empty element err = %v, want ErrEmptyText", err)
	}
	if called {
		t.Errorf("provider should not be called for empty text")
	}
}

func TestManagerDelegates(t *testing.T) {
	dense := &mockDense{
		OnEmbed: func(ctx context.Context, text string, granularity string) ([]float32, error) {
			if granularity != QueryTask {
				t.Errorf("granularity = %q, want %q", granularity, QueryTask)
			}
			return []float32{0.5, 0.5}, nil
		},
		OnEmbedBatch: func(ctx context.Context, texts []string, granularity string) ([][]float32, error) {
			return [][]float32{{1}, {2}}, nil
		},
	}
	m := NewManager(dense, NewHashSparseEncoder(100))

	vec, err := m.EmbedDense(context.Background(), "who signed", QueryTask)
	if err != nil || len(vec) != 2 {
		t.Errorf("EmbedDense = (%v, %v)", vec, err)
	}

	vecs, err := m.EmbedDenseBatch(context.Background(), []string{"a", "b"}, "section")
	if err != nil || len(vecs) != 2 {
		t.Errorf("EmbedDenseBatch = (%v, %v)", vecs, err)
	}

	indices, values, err := m.EmbedSparse(context.Background(), "signature page")
	if err != nil || len(indices) == 0 || len(indices) != len(values) {
		t.Errorf("EmbedSparse = (%v, %v, %v)", indices, values, err)
	}
}
