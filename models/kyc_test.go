package models

import (
	"reflect"
	"testing"
)

func TestCreateAccountRequestMissingFields(t *testing.T) {
	tests := []struct {
		name string
		req  CreateAccountRequest
		want []string
	}{
		{
			name: "all basics present",
			req:  CreateAccountRequest{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "+15551234567"},
			want: nil,
		},
		{
			name: "empty request",
			req:  CreateAccountRequest{},
			want: []string{"firstName", "lastName", "email", "phone"},
		},
		{
			name: "missing email and phone",
			req:  CreateAccountRequest{FirstName: "Jane", LastName: "Doe"},
			want: []string{"email", "phone"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.req.MissingFields()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MissingFields() = %v, want %v", got, tt.want)
			}
		})
	}
}
