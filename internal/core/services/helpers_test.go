package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mhsabu/Neugrove/internal/adapters/driven/lock/memory"
	storage "github.com/mhsabu/Neugrove/internal/adapters/driven/storage/memory"
	"github.com/mhsabu/Neugrove/internal/core/domain"
	"github.com/mhsabu/Neugrove/internal/core/ports/driven"
	"github.com/mhsabu/Neugrove/internal/extractors"
	"github.com/mhsabu/Neugrove/internal/splitters"
)

// --- Mock implementations ---

// fakeEmbedder returns the configured vector for known texts and
// defaultVec for anything else.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	err     error
	calls   int
}

var defaultVec = []float32{1, 0, 0}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := f.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = defaultVec
		}
	}
	return out, nil
}

func (f *fakeEmbedder) Dimensions() int   { return 3 }
func (f *fakeEmbedder) ModelName() string { return "fake" }

// fakeObjects is a map backed object store.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// fakeQueue records published jobs.
type fakeQueue struct {
	mu   sync.Mutex
	jobs []domain.Job
	err  error
}

func (q *fakeQueue) Publish(_ context.Context, job domain.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *fakeQueue) Consume(ctx context.Context) (domain.Job, driven.Receipt, error) {
	<-ctx.Done()
	return domain.Job{}, "", ctx.Err()
}

func (q *fakeQueue) Ack(context.Context, driven.Receipt) error { return nil }
func (q *fakeQueue) Close() error                              { return nil }

// fakeFetcher serves fixed content for every URL.
type fakeFetcher struct {
	content *driven.FetchedContent
	err     error
}

func (f *fakeFetcher) Fetch(context.Context, string) (*driven.FetchedContent, error) {
	return f.content, f.err
}

// testEnv wires the services to in-memory adapters.
type testEnv struct {
	projects  *storage.ProjectStore
	ingests   *storage.IngestStore
	vectors   *storage.VectorStore
	objects   *fakeObjects
	queue     *fakeQueue
	embedder  *fakeEmbedder
	fetcher   *fakeFetcher
	locker    *memory.Locker
	splitters *splitters.Registry
	resolver  *ProjectResolver

	rag   *domain.Project
	agent *domain.Project
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		projects:  storage.NewProjectStore(),
		ingests:   storage.NewIngestStore(),
		vectors:   storage.NewVectorStore(),
		objects:   newFakeObjects(),
		queue:     &fakeQueue{},
		embedder:  &fakeEmbedder{vectors: map[string][]float32{}},
		fetcher:   &fakeFetcher{},
		locker:    memory.New(),
		splitters: splitters.NewDefaultRegistry(),
	}
	env.resolver = NewProjectResolver(env.projects, env.vectors)

	var err error
	env.rag, err = env.projects.Save(context.Background(), domain.Project{UID: "rag1", Name: "Docs", Type: domain.ProjectTypeRAG})
	require.NoError(t, err)
	env.agent, err = env.projects.Save(context.Background(), domain.Project{UID: "agent1", Name: "Bot", Type: domain.ProjectTypeAgent})
	require.NoError(t, err)
	return env
}

func (e *testEnv) collection(p *domain.Project) *storage.Collection {
	return e.vectors.Collection(p).(*storage.Collection)
}

func (e *testEnv) addChunks(t *testing.T, p *domain.Project, chunks ...domain.Chunk) {
	t.Helper()
	require.NoError(t, e.vectors.Collection(p).Add(context.Background(), chunks))
}

func (e *testEnv) ingestService(opts ...IngestOption) *IngestService {
	return NewIngestService(e.resolver, e.ingests, e.objects, e.queue, e.splitters, opts...)
}

func (e *testEnv) processor() *Processor {
	return NewProcessor(ProcessorDeps{
		Projects:   e.projects,
		Ingests:    e.ingests,
		Vectors:    e.vectors,
		Objects:    e.objects,
		Fetcher:    e.fetcher,
		Extractors: extractors.NewDefaultRegistry(),
		Splitters:  e.splitters,
		Embedder:   e.embedder,
		Locker:     e.locker,
	}, 0)
}

func ptr[T any](v T) *T { return &v }
