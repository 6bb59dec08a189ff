package slug

import "testing"

const testKey = "vOVH6sdmpNWjRRIqCc7rdxs01lwHzfr3"

func TestRoundTrip(t *testing.T) {
	c := NewCodec(testKey)

	for _, id := range []uint{0, 1, 7, 42, 100, 99999, 4294967295} {
		token := c.Encode(id)
		if token == "" {
			t.Fatalf("empty token for id %d", id)
		}

		got, ok := c.DecodeID(token)
		if !ok {
			t.Fatalf("decode failed for id %d (token %q)", id, token)
		}
		if got != id {
			t.Errorf("roundtrip mismatch: encoded %d, decoded %d", id, got)
		}
	}
}

func TestDeterministic(t *testing.T) {
	c := NewCodec(testKey)

	if c.Encode(123) != c.Encode(123) {
		t.Error("encode must be deterministic for stable URLs")
	}
	if c.Encode(123) == c.Encode(124) {
		t.Error("distinct ids should produce distinct tokens")
	}
}

func TestEncodeObfuscates(t *testing.T) {
	c := NewCodec(testKey)
	if c.Encode(123) == "123" {
		t.Error("token should not be the raw id")
	}
}

func TestDecodeFailSoft(t *testing.T) {
	c := NewCodec(testKey)

	// Not hex: input comes back unchanged.
	if got := c.Decode("not-hex!"); got != "not-hex!" {
		t.Errorf("expected input back, got %q", got)
	}

	// Valid hex but garbage: decodes to noise, never resolves to an id.
	if _, ok := c.DecodeID("ffff"); ok {
		t.Log("garbage token happened to decode numerically; lookup would 404")
	}
}

func TestBadKeyFallsBackToPlainID(t *testing.T) {
	c := NewCodec("short-key")

	if got := c.Encode(55); got != "55" {
		t.Errorf("bad key should fall back to the raw id string, got %q", got)
	}
	if got := c.Decode("abcd"); got != "abcd" {
		t.Errorf("bad key should return decode input unchanged, got %q", got)
	}
}
