package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	c := map[string]string{
		"PORT":    "9090",
		"BAD_INT": "nine",
		"DEBUG":   "true",
		"TTL":     "90m",
		"EMPTY":   "",
		"ORIGINS": "https://a.example, ,https://b.example",
	}

	assert.Equal(t, 9090, GetInt(c, "PORT", 8080))
	assert.Equal(t, 8080, GetInt(c, "BAD_INT", 8080))
	assert.Equal(t, 8080, GetInt(c, "MISSING", 8080))
	assert.True(t, GetBool(c, "DEBUG", false))
	assert.False(t, GetBool(c, "MISSING", false))
	assert.Equal(t, 90*time.Minute, GetDuration(c, "TTL", time.Hour))
	assert.Equal(t, "fallback", GetString(c, "EMPTY", "fallback"))
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, GetList(c, "ORIGINS"))
	assert.Equal(t, "x", GetString(nil, "PORT", "x"))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_KEY", "a=b")
	c := New()
	assert.Equal(t, "a=b", c["PORTFOLIO_TEST_KEY"])
}

type fakeSSM struct {
	pages [][]types.Parameter
	calls int
}

func (f *fakeSSM) GetParametersByPath(ctx context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	page := f.pages[f.calls]
	f.calls++
	out := &ssm.GetParametersByPathOutput{Parameters: page}
	if f.calls < len(f.pages) {
		out.NextToken = aws.String("more")
	}
	return out, nil
}

func TestOverlaySSM(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{{Name: aws.String("/portfolio/prod/SECRET_KEY"), Value: aws.String("s3cret")}},
		{{Name: aws.String("/portfolio/prod/RESEND_API_KEY"), Value: aws.String("re_123")}},
	}}
	c := map[string]string{"SECRET_KEY": "from-env", "PORT": "8080"}

	n, err := OverlaySSM(context.Background(), client, "/portfolio/prod", c)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "s3cret", c["SECRET_KEY"])
	assert.Equal(t, "re_123", c["RESEND_API_KEY"])
	assert.Equal(t, "8080", c["PORT"])
	assert.Equal(t, 2, client.calls)
}
