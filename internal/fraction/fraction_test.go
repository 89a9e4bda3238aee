package fraction

import (
	"errors"
	"math"
	"testing"
)

func TestNewReduces(t *testing.T) {
	tests := []struct {
		num, den         int64
		wantNum, wantDen int64
	}{
		{2, 4, 1, 2},
		{-2, 4, -1, 2},
		{2, -4, -1, 2},
		{-3, -9, 1, 3},
		{0, 7, 0, 1},
		{9, 10, 9, 10},
		{10, 10, 1, 1},
	}
	for _, tt := range tests {
		f, err := New(tt.num, tt.den)
		if err != nil {
			t.Fatalf("New(%d, %d): %v", tt.num, tt.den, err)
		}
		if f.Num() != tt.wantNum || f.Den() != tt.wantDen {
			t.Errorf("New(%d, %d) = %s, want %d/%d", tt.num, tt.den, f, tt.wantNum, tt.wantDen)
		}
	}
}

func TestNewZeroDenominator(t *testing.T) {
	if _, err := New(1, 0); !errors.Is(err, ErrZeroDenominator) {
		t.Errorf("New(1, 0) err = %v, want ErrZeroDenominator", err)
	}
}

func TestZeroValue(t *testing.T) {
	var f Fraction
	if !f.Equal(Zero) {
		t.Errorf("zero value = %s, want 0/1", f)
	}
	if f.Den() != 1 {
		t.Errorf("zero value Den = %d, want 1", f.Den())
	}
	if got, err := f.Add(One); err != nil || !got.Equal(One) {
		t.Errorf("0 + 1 = %s, %v, want 1/1", got, err)
	}
}

func TestArithmetic(t *testing.T) {
	third := MustNew(1, 3)
	half := MustNew(1, 2)

	got, err := third.Add(half)
	if err != nil || !got.Equal(MustNew(5, 6)) {
		t.Errorf("1/3 + 1/2 = %s, %v, want 5/6", got, err)
	}
	got, err = third.Sub(half)
	if err != nil || !got.Equal(MustNew(-1, 6)) {
		t.Errorf("1/3 - 1/2 = %s, %v, want -1/6", got, err)
	}
	got, err = third.Mul(half)
	if err != nil || !got.Equal(MustNew(1, 6)) {
		t.Errorf("1/3 * 1/2 = %s, %v, want 1/6", got, err)
	}
	got, err = third.Div(half)
	if err != nil {
		t.Fatalf("Div: %v", err)
	}
	if !got.Equal(MustNew(2, 3)) {
		t.Errorf("1/3 / 1/2 = %s, want 2/3", got)
	}
	got, err = half.Div(MustNew(-1, 4))
	if err != nil {
		t.Fatalf("Div negative: %v", err)
	}
	if !got.Equal(Int(-2)) {
		t.Errorf("1/2 / -1/4 = %s, want -2/1", got)
	}
	if _, err := half.Div(Zero); !errors.Is(err, ErrZeroDenominator) {
		t.Errorf("Div by zero err = %v, want ErrZeroDenominator", err)
	}
	got, err = Int(3).DivInt(6)
	if err != nil {
		t.Fatalf("DivInt: %v", err)
	}
	if !got.Equal(half) {
		t.Errorf("3 / 6 = %s, want 1/2", got)
	}
}

func TestThirdsSumExactlyToOne(t *testing.T) {
	third := MustNew(1, 3)
	got, err := Sum(third, third, third)
	if err != nil || !got.Equal(One) {
		t.Errorf("1/3 + 1/3 + 1/3 = %s, %v, want 1/1", got, err)
	}
}

func TestLargeDenominatorsStayExact(t *testing.T) {
	a := MustNew(4294967295, 4294967296)
	b := MustNew(4294967295, 4294967291)

	// The exact sum needs a denominator of about 2^64.
	if got, err := a.Add(b); !errors.Is(err, ErrOverflow) {
		t.Errorf("%s + %s = %s, %v, want ErrOverflow", a, b, got, err)
	}
	if _, err := a.Sub(b); !errors.Is(err, ErrOverflow) {
		t.Errorf("Sub err = %v, want ErrOverflow", err)
	}
	if _, err := a.Mul(b); !errors.Is(err, ErrOverflow) {
		t.Errorf("Mul err = %v, want ErrOverflow", err)
	}
	if _, err := Sum(a, b); !errors.Is(err, ErrOverflow) {
		t.Errorf("Sum err = %v, want ErrOverflow", err)
	}

	// Products that reduce back into range are fine.
	large := MustNew(1<<62, 3)
	got, err := large.Mul(MustNew(3, 1<<62))
	if err != nil || !got.Equal(One) {
		t.Errorf("%s * 3/2^62 = %s, %v, want 1/1", large, got, err)
	}
	if _, err := Int(1 << 62).Add(Int(1 << 62)); !errors.Is(err, ErrOverflow) {
		t.Errorf("2^62 + 2^62 err = %v, want ErrOverflow", err)
	}
}

func TestNewRejectsMinInt64(t *testing.T) {
	if _, err := New(math.MinInt64, 1); !errors.Is(err, ErrOverflow) {
		t.Errorf("New(MinInt64, 1) err = %v, want ErrOverflow", err)
	}
	got, err := New(math.MinInt64, 2)
	if err != nil || !got.Equal(Int(-(1 << 62))) {
		t.Errorf("New(MinInt64, 2) = %s, %v, want -2^62", got, err)
	}
}

func TestMean(t *testing.T) {
	got, err := Mean()
	if err != nil || !got.Equal(Zero) {
		t.Errorf("Mean() = %s, %v, want 0/1", got, err)
	}
	got, err = Mean(One, MustNew(1, 2), Zero)
	if err != nil || !got.Equal(MustNew(1, 2)) {
		t.Errorf("Mean(1, 1/2, 0) = %s, %v, want 1/2", got, err)
	}

	// The running sum exceeds int64 but the mean does not.
	huge := Int(math.MaxInt64)
	got, err = Mean(huge, huge, huge)
	if err != nil || !got.Equal(huge) {
		t.Errorf("Mean of MaxInt64 x3 = %s, %v", got, err)
	}

	a := MustNew(4294967295, 4294967296)
	b := MustNew(4294967295, 4294967291)
	if _, err := Mean(a, b); !errors.Is(err, ErrOverflow) {
		t.Errorf("Mean err = %v, want ErrOverflow", err)
	}
}

func TestCmp(t *testing.T) {
	tests := []struct {
		a, b Fraction
		want int
	}{
		{MustNew(9, 10), MustNew(9, 10), 0},
		{MustNew(8, 9), MustNew(9, 10), -1},
		{One, MustNew(9, 10), 1},
		{MustNew(-1, 2), Zero, -1},
		{MustNew(1<<40, 3), MustNew(1<<40+1, 3), -1},
		{MustNew(1<<40, 7), MustNew(1<<40, 11), 1},
	}
	for _, tt := range tests {
		if got := tt.a.Cmp(tt.b); got != tt.want {
			t.Errorf("%s.Cmp(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Fraction
		wantErr bool
	}{
		{"9/10", MustNew(9, 10), false},
		{" 2 / 4 ", MustNew(1, 2), false},
		{"3", Int(3), false},
		{"1/0", Fraction{}, true},
		{"a/2", Fraction{}, true},
		{"1/b", Fraction{}, true},
		{"", Fraction{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestStringParsesBack(t *testing.T) {
	for _, f := range []Fraction{Zero, One, MustNew(-7, 3), MustNew(9, 10)} {
		got, err := Parse(f.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", f.String(), err)
		}
		if !got.Equal(f) {
			t.Errorf("Parse(%q) = %s", f.String(), got)
		}
	}
}
