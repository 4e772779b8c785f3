package normalize

import (
	"reflect"
	"testing"
)

func mustPolicy(t *testing.T, name string) Policy {
	t.Helper()
	p, err := ForName(name)
	if err != nil {
		t.Fatalf("resolve %q: %v", name, err)
	}
	return p
}

func TestForNameUnknown(t *testing.T) {
	if _, err := ForName("whisper"); err == nil {
		t.Fatal("expected error for unknown policy name")
	}
}

func TestNoneStripsSmartPunctuation(t *testing.T) {
	p := mustPolicy(t, "none")
	got := p.Normalize("“Hello” — it’s fine… well...")
	want := "Hello  its fine well"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	// No case folding under this policy.
	if words := Words(p, "Hello World"); words[0] != "Hello" {
		t.Fatalf("none policy must not lowercase, got %v", words)
	}
}

func TestBasicNormalize(t *testing.T) {
	p := mustPolicy(t, "basic")
	cases := []struct {
		in   string
		want []string
	}{
		{"Hello, World!", []string{"hello", "world"}},
		{"The [inaudible] answer (maybe) is yes.", []string{"the", "answer", "is", "yes"}},
		{"café naïve", []string{"cafe", "naive"}},
		{"one   two\tthree", []string{"one", "two", "three"}},
		{"don't", []string{"don", "t"}},
	}
	for _, c := range cases {
		if got := Words(p, c.in); !reflect.DeepEqual(got, c.want) {
			t.Fatalf("Words(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	if got := Words(p, ""); len(got) != 0 {
		t.Fatalf("expected no words for empty input, got %v", got)
	}
}

func TestEnglishContractions(t *testing.T) {
	p := mustPolicy(t, "english")
	cases := []struct {
		in, want string
	}{
		{"I won't go", "i will not go"},
		{"she can't swim", "she can not swim"},
		{"they don't know", "they do not know"},
		{"we're here, you've won", "we are here you have won"},
		{"he'll call, I'd wait", "he will call i would wait"},
		{"let's begin", "let us begin"},
		{"the cat's bowl", "the cats bowl"},
	}
	for _, c := range cases {
		if got := p.Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEnglishSpokenForms(t *testing.T) {
	p := mustPolicy(t, "english")
	cases := []struct {
		in, want string
	}{
		{"Mr. Smith & Dr. Jones", "mister smith and doctor jones"},
		{"100% sure", "100 percent sure"},
		{"chapter 3, 1st edition", "chapter three first edition"},
		{"I'm gonna win", "i am going to win"},
	}
	for _, c := range cases {
		if got := p.Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"Mr. O'Brien won't say 100% — he's [hesitant] (I think)...",
		"“Good Morning”, she said: it’s 9 o'clock!",
		"café au lait & crêpes, 1st of May",
	}
	for _, name := range []string{"basic", "english"} {
		p := mustPolicy(t, name)
		for _, in := range inputs {
			once := p.Normalize(in)
			twice := p.Normalize(once)
			if once != twice {
				t.Fatalf("%s not idempotent on %q: %q vs %q", name, in, once, twice)
			}
		}
	}
}
