package address

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_IPv4(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"10.0.0.5", true},
		{"0.0.0.0", true},
		{"255.255.255.255", true},
		{"192.168.1.1:9100", true},
		{"192.168.1.1:1", true},
		{"256.1.1.1", false},
		{"1.1.1.300", false},
		{"1.1.1.300:9100", false},
		{"1.1.1", false},
		{"1.1.1.1.1", false},
		{"a.b.c.d", false},
		{"1.1.1.1:", false},
		{"1.1.1.1:port", false},
		{"1111.1.1.1", false},
		{"", false},
		{" 1.1.1.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.addr, false))
		})
	}
}

func TestValidate_IPv6(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"2001:0db8:85a3:0000:0000:8a2e:0370:7334", true},
		{"2001:db8::1", true},
		{"::1", true},
		{"::", true},
		{"fe80::", true},
		{"1:2:3:4:5:6:7::", true},
		{"::2:3:4:5:6:7:8", true},
		{"1::8", true},
		{"1:2::7:8", true},
		{"1:2:3::8", true},
		{"1:2:3:4:5::8", true},
		{"1:2:3:4:5:6::8", true},
		{"2001:db8::1::2", false},
		{"1:2:3:4:5:6:7", false},
		{"1:2:3:4:5:6:7:8:9", false},
		{"2001:db8::g", false},
		{"12345::1", false},
		{"1:::2", false},
		{"2001:db8::1/64", false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.addr, true))
		})
	}
}

func TestValidate_IPv6RequiresOptIn(t *testing.T) {
	assert.False(t, Validate("2001:db8::1", false))
	assert.False(t, Validate("::1", false))
	// IPv4 is still accepted when IPv6 is allowed
	assert.True(t, Validate("10.0.0.5", true))
}

func TestSplit(t *testing.T) {
	tests := []struct {
		host     string
		base     string
		withPort string
	}{
		{"10.0.0.5", "10.0.0.5", "10.0.0.5:9100"},
		{"10.0.0.5:9200", "10.0.0.5", "10.0.0.5:9200"},
	}

	for _, tt := range tests {
		t.Run(tt.host, func(t *testing.T) {
			base, withPort := Split(tt.host, 9100)
			assert.Equal(t, tt.base, base)
			assert.Equal(t, tt.withPort, withPort)
		})
	}
}

func TestHasPort(t *testing.T) {
	assert.True(t, HasPort("10.0.0.5:9100"))
	assert.False(t, HasPort("10.0.0.5"))
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"10.0.0.5:9100", "10.0.0.5"},
		{"10.0.0.5", "10.0.0.5"},
		{"[2001:db8::1]:9100", "2001:db8::1"},
		{"2001:db8::1", "2001:db8::1"},
		{"node.example.com:9100", "node.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, HostOf(tt.target))
		})
	}
}
