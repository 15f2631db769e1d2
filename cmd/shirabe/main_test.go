package main

import (
	"reflect"
	"testing"
)

func TestQueryArgsReorder(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "flags already first",
			in:   []string{"-top-k", "10", "restart", "gateway"},
			want: []string{"-top-k", "10", "restart", "gateway"},
		},
		{
			name: "flags after query moved to front",
			in:   []string{"restart", "gateway", "-top-k", "10"},
			want: []string{"-top-k", "10", "restart", "gateway"},
		},
		{
			name: "no flags",
			in:   []string{"restart", "gateway"},
			want: []string{"restart", "gateway"},
		},
		{
			name: "empty",
			in:   []string{},
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryArgsReorder(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("queryArgsReorder(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	if got := splitList(""); got != nil {
		t.Errorf("splitList(\"\") = %v, want nil", got)
	}
	got := splitList("TMP, PM ,,RBK")
	want := []string{"TMP", "PM", "RBK"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
}
