package logbook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatRegistration(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"vhtae", "VH-TAE"},
		{"VHT", "VH-T"},
		{"vh", "VH"},
		{"v", "V"},
		{"n12345", "N12345"},
		{"N1", "N1"},
		{"g-abcd", "G-ABCD"},
		{"gabcd", "G-ABCD"},
		{"zsxyz", "ZS-XYZ"},
		{"ZS", "ZS"},
		{"ecabc", "EC-ABC"},
		{"japan", "JA-PAN"},
		{"phabc", "PH-ABC"},
		{"seabc", "SE-ABC"},
		{"lvabc", "LV-ABC"},
		{"ppabc", "PP-ABC"},
		{"dabcd", "D-ABCD"},
		{"fabcd", "F-ABCD"},
		{"cgabc", "C-GABC"},
		{"g", "G"},
		{"nabc", "NABC"},
		{"zk123", "ZK123"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRegistration(tt.in))
		})
	}
}

func TestFormatRegistrationIdempotent(t *testing.T) {
	for _, in := range []string{"vhtae", "n12345", "gabcd", "zsxyz", "cgabc", "zk123", "VH-ABC"} {
		once := FormatRegistration(in)
		assert.Equal(t, once, FormatRegistration(once), in)
	}
}
