package library

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/w-udagawa/vlingual-cards/internal/dataset"
	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

const validCSV = "単語,和訳,文脈,難易度,品詞,動画URL,動画タイトル,事務所,キャスト名\n" +
	"alpha,アルファ,ctx,初級,名詞,https://youtu.be/aaaaaaaaaaa,Video A,ホロライブ,宝鐘マリン\n" +
	"beta,ベータ,ctx,中級,名詞,https://youtu.be/bbbbbbbbbbb,Video B,にじさんじ,月ノ美兎\n" +
	"bad,悪い,ctx,超級,形容詞,https://youtu.be/ccccccccccc,x,y,z\n"

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestService(src source, order orderProvider) *Service {
	svc := NewService(slog.Default(), src, order)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func staticSource(text string, err error) *sourceMock {
	return &sourceMock{
		FetchFunc: func(ctx context.Context) (string, error) { return text, err },
	}
}

func TestLoad_Success(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticSource(validCSV, nil), nil)

	st, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Count != 2 || st.Fallback || st.Error != "" {
		t.Errorf("status: got %+v", st)
	}
	if st.Schema != string(dataset.SchemaNew9) {
		t.Errorf("schema: got %q", st.Schema)
	}
	if st.Skipped != 1 {
		t.Errorf("skipped rows: got %d, want 1", st.Skipped)
	}
	if !st.LoadedAt.Equal(fixedNow) {
		t.Errorf("loadedAt: got %v", st.LoadedAt)
	}
	if got := svc.Status(); got != st {
		t.Errorf("Status(): got %+v, want %+v", got, st)
	}

	casts := svc.Catalog().Casts()
	if len(casts) != 2 {
		t.Fatalf("casts: got %d, want 2", len(casts))
	}
	if casts[0].Name != "月ノ美兎" {
		t.Errorf("first cast: got %q, want 月ノ美兎", casts[0].Name)
	}
}

func TestLoad_FallsBackToSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  *sourceMock
		want error
	}{
		{"transport", staticSource("", &domain.TransportError{URL: "http://x", Status: 503}), domain.ErrTransport},
		{"format", staticSource("foo,bar\n1,2\n", nil), domain.ErrFormat},
		{"empty", staticSource("単語,和訳,難易度,品詞,文脈,動画URL\nbad,x,超級,n,c,u\n", nil), domain.ErrEmptyDataset},
		{"other", staticSource("", errors.New("boom")), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(tt.src, nil)
			st, err := svc.Load(context.Background())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !st.Fallback || st.Error == "" {
				t.Errorf("expected fallback with error, got %+v", st)
			}
			if st.Blocking() {
				t.Error("sample data should not leave a blocking error")
			}
			if st.Count != len(dataset.Sample()) {
				t.Errorf("count: got %d, want %d", st.Count, len(dataset.Sample()))
			}
			if tt.want != nil {
				_, ferr := svc.fetch(context.Background())
				if !errors.Is(ferr, tt.want) {
					t.Errorf("fetch error: got %v, want %v", ferr, tt.want)
				}
			}
		})
	}
}

func TestLoad_NeverMixesDatasets(t *testing.T) {
	t.Parallel()

	fail := false
	src := &sourceMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			if fail {
				return "", &domain.TransportError{URL: "u"}
			}
			return validCSV, nil
		},
	}
	svc := newTestService(src, nil)

	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("first load: %v", err)
	}
	fail = true
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}

	for _, r := range svc.Records() {
		if r.Term == "alpha" || r.Term == "beta" {
			t.Fatalf("real record %q survived a fallback", r.Term)
		}
	}
	if got := len(svc.Catalog().All()); got != len(dataset.Sample()) {
		t.Errorf("catalog words: got %d, want %d", got, len(dataset.Sample()))
	}
}

func TestUseSample(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticSource("", &domain.TransportError{URL: "u"}), nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	st := svc.UseSample(context.Background())
	if st.Error != "" || !st.Fallback || st.Source != "sample" {
		t.Errorf("status: got %+v", st)
	}
	if svc.Catalog().WordCount() != len(dataset.Sample()) {
		t.Errorf("word count: got %d", svc.Catalog().WordCount())
	}
}

func TestLoad_WithoutSourceUsesSample(t *testing.T) {
	t.Parallel()

	svc := newTestService(nil, nil)
	st, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Error != "" || st.Source != "sample" || st.Count != len(dataset.Sample()) {
		t.Errorf("status: got %+v", st)
	}
}

func TestLoad_SharesInFlightLoad(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	src := &sourceMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			once.Do(func() { close(started) })
			<-release
			return validCSV, nil
		},
	}
	svc := newTestService(src, nil)

	var wg sync.WaitGroup
	results := make([]Status, 4)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = svc.Load(context.Background())
	}()
	<-started
	if !svc.Status().Loading {
		t.Error("status should report loading")
	}

	for i := 1; i < len(results); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = svc.Load(context.Background())
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := len(src.FetchCalls()); n != 1 {
		t.Errorf("Fetch calls: got %d, want 1", n)
	}
	for i, r := range results {
		if r.Count != 2 {
			t.Errorf("result %d: count %d, want 2", i, r.Count)
		}
	}
}

func TestLoad_WaiterHonorsContext(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	src := &sourceMock{
		FetchFunc: func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return validCSV, nil
		},
	}
	svc := newTestService(src, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Load(context.Background())
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("waiter error: got %v, want context.Canceled", err)
	}
	close(release)
	<-done
}

func TestRebuild_AppliesOrganizationOrder(t *testing.T) {
	t.Parallel()

	order := []string(nil)
	prefs := &orderProviderMock{
		OrganizationOrderFunc: func(ctx context.Context) ([]string, error) { return order, nil },
	}
	svc := newTestService(staticSource(validCSV, nil), prefs)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := svc.Catalog().Casts()[0].Name; got != "月ノ美兎" {
		t.Fatalf("default order: first cast %q", got)
	}

	order = []string{"ホロライブ"}
	svc.Rebuild(context.Background())
	if got := svc.Catalog().Casts()[0].Name; got != "宝鐘マリン" {
		t.Errorf("override order: first cast %q, want 宝鐘マリン", got)
	}
}

func TestLoad_OrderErrorStillBuilds(t *testing.T) {
	t.Parallel()

	prefs := &orderProviderMock{
		OrganizationOrderFunc: func(ctx context.Context) ([]string, error) { return nil, errors.New("store down") },
	}
	svc := newTestService(staticSource(validCSV, nil), prefs)
	st, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Count != 2 || len(svc.Catalog().Casts()) != 2 {
		t.Errorf("catalog not built: %+v", st)
	}
}

func TestPool(t *testing.T) {
	t.Parallel()

	svc := newTestService(staticSource(validCSV, nil), nil)
	if _, err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	recs, err := svc.Pool(domain.PoolRef{VideoID: "aaaaaaaaaaa"})
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	if len(recs) != 1 || recs[0].Term != "alpha" {
		t.Errorf("pool: got %v", domain.Terms(recs))
	}
	if _, err := svc.Pool(domain.PoolRef{VideoID: "zzzzzzzzzzz"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown video: got %v", err)
	}
	if !strings.Contains(svc.Status().Source, "mock") {
		t.Errorf("source: got %q", svc.Status().Source)
	}
}
