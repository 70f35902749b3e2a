package gigya

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient is a mock implementation of Client.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) Send(ctx context.Context, req *Request) (*Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Response), args.Error(1)
}

func ptr(s string) *string {
	return &s
}

func okResponse(body string) *Response {
	return &Response{StatusCode: 200, Body: []byte(body)}
}
