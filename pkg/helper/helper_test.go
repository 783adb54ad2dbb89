package helper

import (
	"strings"
	"testing"
)

func TestGetFuncName(t *testing.T) {
	got := GetFuncName()
	if !strings.HasSuffix(got, "helper.TestGetFuncName") {
		t.Errorf("GetFuncName() = %v, want suffix helper.TestGetFuncName", got)
	}
}

func TestShortFuncName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "method", in: "github.com/haguru/seedkit/internal/seeder.(*Seeder).Seed", want: "seeder.(*Seeder).Seed"},
		{name: "no path", in: "main.main", want: "main.main"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShortFuncName(tt.in); got != tt.want {
				t.Errorf("ShortFuncName() = %v, want %v", got, tt.want)
			}
		})
	}
}
