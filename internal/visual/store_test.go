package visual

import "testing"

func TestDefaults(t *testing.T) {
	want := Settings{Brightness: 100, Contrast: 100, Saturation: 100, Blur: 0, Detail: 100}
	if got := NewStore().Get(); got != want {
		t.Fatalf("default settings = %+v, want %+v", got, want)
	}
}

func TestSetClampsOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "above upper bounds",
			in:   Settings{Brightness: 500, Contrast: 201, Saturation: 300, Blur: 99, Detail: 999},
			want: Settings{Brightness: 200, Contrast: 200, Saturation: 200, Blur: 20, Detail: 180},
		},
		{
			name: "below lower bounds",
			in:   Settings{Brightness: -1, Contrast: -50, Saturation: -1, Blur: -5, Detail: 0},
			want: Settings{Brightness: 0, Contrast: 0, Saturation: 0, Blur: 0, Detail: 80},
		},
		{
			name: "in range unchanged",
			in:   Settings{Brightness: 120, Contrast: 80, Saturation: 150, Blur: 4, Detail: 110},
			want: Settings{Brightness: 120, Contrast: 80, Saturation: 150, Blur: 4, Detail: 110},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewStore()
			if got := st.Set(tt.in); got != tt.want {
				t.Fatalf("Set(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
			if got := st.Get(); got != tt.want {
				t.Fatalf("Get() after Set = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestResetIsAtomic(t *testing.T) {
	st := NewStore()
	st.Set(Settings{Brightness: 180, Contrast: 60, Saturation: 140, Blur: 10, Detail: 160})

	if got := st.Reset(); got != Defaults() {
		t.Fatalf("Reset() = %+v, want defaults", got)
	}
	if got := st.Get(); got != Defaults() {
		t.Fatalf("Get() after Reset = %+v, want defaults", got)
	}
}
