package cart

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCartTotal(t *testing.T) {
	c := Cart{
		{ID: 1, Price: decimal.RequireFromString("179.90"), Amount: 2},
		{ID: 2, Price: decimal.RequireFromString("139.90"), Amount: 1},
	}

	if got := c[0].Subtotal(); !got.Equal(decimal.RequireFromString("359.80")) {
		t.Errorf("Subtotal = %s, want 359.80", got)
	}
	if got := c.Total(); !got.Equal(decimal.RequireFromString("499.70")) {
		t.Errorf("Total = %s, want 499.70", got)
	}
	if c.Size() != 2 {
		t.Errorf("Size = %d, want 2", c.Size())
	}
}

func TestCartCloneIsIndependent(t *testing.T) {
	c := Cart{{ID: 1, Amount: 1}}
	clone := c.Clone()
	clone[0].Amount = 5

	if c[0].Amount != 1 {
		t.Error("mutating clone changed original")
	}
	if Cart(nil).Clone() == nil {
		t.Error("Clone of nil cart should be non-nil")
	}
}

func TestEncodeEmptyCart(t *testing.T) {
	for _, c := range []Cart{nil, {}} {
		got, err := Encode(c)
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if got != "[]" {
			t.Errorf("Encode(%v) = %q, want []", c, got)
		}
	}
}

func TestDecode(t *testing.T) {
	in := `[{"id":2,"name":"Tênis VR Caminhada","price":"139.9","imageUrl":"https://example.com/2.jpg","amount":3},{"id":1,"price":179.9,"amount":1}]`

	c, err := Decode(in)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(c) != 2 {
		t.Fatalf("len = %d, want 2", len(c))
	}
	if c[0].ID != 2 || c[0].Amount != 3 || c[0].Name != "Tênis VR Caminhada" {
		t.Errorf("first entry = %+v", c[0])
	}
	if !c[1].Price.Equal(decimal.RequireFromString("179.9")) {
		t.Errorf("numeric price decoded as %s", c[1].Price)
	}
}

func TestDecode_EmptyArray(t *testing.T) {
	c, err := Decode("[]")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if c == nil || len(c) != 0 {
		t.Errorf("Decode([]) = %#v, want empty non-nil cart", c)
	}
}
