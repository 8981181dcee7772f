package convert

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"peasydeal-link-converter/internal/affiliate"
	"peasydeal-link-converter/internal/metrics"
	"peasydeal-link-converter/internal/normalize"
)

type fakeResolver struct {
	redirects map[string]string
	fail      map[string]bool
	panics    map[string]bool
	calls     atomic.Int32
}

func (f *fakeResolver) Resolve(_ context.Context, raw string) (string, error) {
	f.calls.Add(1)
	if f.panics[raw] {
		panic("boom")
	}
	if f.fail[raw] {
		return raw, errors.New("dial tcp: timeout")
	}
	if to, ok := f.redirects[raw]; ok {
		return to, nil
	}
	return raw, nil
}

type fakeSigner struct {
	links map[string]string
	calls atomic.Int32
}

func (f *fakeSigner) Sign(_ context.Context, canonical string) (string, error) {
	f.calls.Add(1)
	if l, ok := f.links[canonical]; ok {
		return l, nil
	}
	return "", affiliate.ErrAPI
}

func newTestService(r Resolver, s Signer) *Service {
	return NewService(r, s, Options{MaxConcurrency: 4}, metrics.Noop{}, zap.NewNop().Sugar())
}

func TestExtractURLs(t *testing.T) {
	t.Parallel()

	text := "a https://shopee.vn/x?y=1 b\thttp://shp.ee/abc c https://shopee.vn/x?y=1\nhttps://e.com/ end"
	require.Equal(t, []string{
		"https://shopee.vn/x?y=1",
		"http://shp.ee/abc",
		"https://shopee.vn/x?y=1",
		"https://e.com/",
	}, ExtractURLs(text))

	require.Empty(t, ExtractURLs("no links here, just http:// and ftp://x"))
}

func TestDedupe_KeepsFirstOccurrenceOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"c", "a", "b"}, Dedupe([]string{"c", "a", "c", "b", "a"}))
}

func TestSubstitute_LongestFirst(t *testing.T) {
	t.Parallel()

	short := "https://shopee.vn/shop"
	long := "https://shopee.vn/shop?utm_x=1"
	text := long + " " + short

	got := Substitute(text, []Conversion{
		{Original: short, Clean: "SHORT"},
		{Original: long, Clean: long},
	})
	require.Equal(t, long+" SHORT", got)
}

func TestSubstitute_NoRescan(t *testing.T) {
	t.Parallel()

	got := Substitute("https://a.vn/x", []Conversion{
		{Original: "https://a.vn/x", Clean: "https://b.vn/y"},
		{Original: "https://b.vn/y", Clean: "WRONG"},
	})
	require.Equal(t, "https://b.vn/y", got)
}

func TestProcess_NoURLsIsByteIdentical(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{}
	svc := newTestService(r, nil)

	text := "  hello\r\n world   "
	got, err := svc.Process(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, text, got)
	require.Zero(t, r.calls.Load())
}

func TestProcess_UniversalProductScenario(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeResolver{}, nil)

	got, err := svc.Process(context.Background(), "check https://shopee.vn/somehshop/123456/987654321?x=1")
	require.NoError(t, err)
	require.Equal(t, "check https://shopee.vn/product/123456/987654321", got)
}

func TestProcess_NonMarketplaceUnchanged(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeResolver{}, &fakeSigner{})

	for _, text := range []string{"see https://example.com/page", "see https://example.com/page?utm_source=x&utm_medium=y"} {
		got, err := svc.Process(context.Background(), text)
		require.NoError(t, err)
		require.Equal(t, text, got)
	}
}

func TestProcess_DuplicateReplacedEverywhere(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{redirects: map[string]string{
		"https://s.shopee.vn/abc": "https://shopee.vn/coolshop?smtt=1",
	}}
	svc := newTestService(r, nil)

	got, err := svc.Process(context.Background(), "a https://s.shopee.vn/abc b https://s.shopee.vn/abc")
	require.NoError(t, err)
	require.Equal(t, "a https://shopee.vn/coolshop b https://shopee.vn/coolshop", got)
	require.EqualValues(t, 1, r.calls.Load())
}

func TestProcess_AffiliateAndFallbacks(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{
		redirects: map[string]string{"https://shp.ee/ok": "https://shopee.vn/shop-a/1/2?x=1"},
		fail:      map[string]bool{"https://shp.ee/down": true},
	}
	s := &fakeSigner{links: map[string]string{"https://shopee.vn/product/1/2": "https://s.shopee.vn/aff"}}
	svc := newTestService(r, s)

	text := "1 https://shp.ee/ok 2 https://shp.ee/down 3 https://shopee.vn/m/sale?x=1"
	res, err := svc.ProcessDetailed(context.Background(), text)
	require.NoError(t, err)
	require.Equal(t, "1 https://s.shopee.vn/aff 2 https://shp.ee/down 3 https://shopee.vn/m/sale", res.Text)

	require.Len(t, res.Conversions, 3)
	require.Equal(t, normalize.UniversalProduct, res.Conversions[0].Class)
	require.Equal(t, "https://s.shopee.vn/aff", res.Conversions[0].Affiliate)
	require.Equal(t, normalize.Unclassified, res.Conversions[1].Class)
	require.Equal(t, normalize.EventPage, res.Conversions[2].Class)
	require.Empty(t, res.Conversions[2].Affiliate)

	// the failed resolution is never signed
	require.EqualValues(t, 2, s.calls.Load())
}

func TestProcess_PanicBecomesError(t *testing.T) {
	t.Parallel()

	r := &fakeResolver{panics: map[string]bool{"https://shopee.vn/bad": true}}
	svc := newTestService(r, nil)

	_, err := svc.Process(context.Background(), "x https://shopee.vn/bad y https://shopee.vn/good")
	require.Error(t, err)
	require.Contains(t, err.Error(), "panic")
}

func TestProcess_SignerErrorsFallBackToCanonical(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[{"message":"invalid sign"}]}`))
	}))
	t.Cleanup(srv.Close)

	signer := affiliate.NewSigner(affiliate.Config{AppID: "1", Secret: "2", Endpoint: srv.URL}, zap.NewNop().Sugar())
	svc := newTestService(&fakeResolver{}, signer)

	got, err := svc.Process(context.Background(), "buy https://shopee.vn/coolshop?sp_atk=1")
	require.NoError(t, err)
	require.Equal(t, "buy https://shopee.vn/coolshop", got)
}

func TestProcess_ManyURLs(t *testing.T) {
	t.Parallel()

	var b strings.Builder
	for i := 0; i < 50; i++ {
		b.WriteString("https://shopee.vn/shop")
		b.WriteByte(byte('a' + i%26))
		b.WriteString(strings.Repeat("z", i/26))
		b.WriteString("?q=1 ")
	}

	svc := newTestService(&fakeResolver{}, nil)
	got, err := svc.Process(context.Background(), b.String())
	require.NoError(t, err)
	require.NotContains(t, got, "?q=1")
}
