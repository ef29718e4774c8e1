package v1

import (
	"context"
	"hash/fnv"
	"math"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/pgvector/pgvector-go"

	"github.com/resumid-ai/resumid/app/core"
	"github.com/resumid-ai/resumid/app/core/srv"
	"github.com/resumid-ai/resumid/app/store"
	"github.com/resumid-ai/resumid/pkg/ai"
	"github.com/resumid-ai/resumid/pkg/retrieval"
	"github.com/resumid-ai/resumid/pkg/types"
	"github.com/resumid-ai/resumid/pkg/utils"
)

func TestMain(m *testing.M) {
	utils.SetupIDWorker(1)
	os.Exit(m.Run())
}

// fakeEmbedder produces deterministic bag-of-words vectors so that token
// overlap between texts translates into cosine similarity without any
// provider round trip.
type fakeEmbedder struct {
	mu            sync.Mutex
	documentCalls int
	queryCalls    int
}

const fakeDim = 16

func (f *fakeEmbedder) embed(texts []string) [][]float32 {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec := make([]float32, fakeDim)
		for _, token := range utils.Tokenize(text) {
			h := fnv.New32a()
			h.Write([]byte(token))
			vec[h.Sum32()%fakeDim]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v) * float64(v)
		}
		if norm > 0 {
			scale := float32(1 / math.Sqrt(norm))
			for i := range vec {
				vec[i] *= scale
			}
		}
		out = append(out, vec)
	}
	return out
}

func (f *fakeEmbedder) EmbeddingForQuery(ctx context.Context, content []string) (ai.EmbeddingResult, error) {
	f.mu.Lock()
	f.queryCalls++
	f.mu.Unlock()
	return ai.EmbeddingResult{Model: f.Model(), Dim: fakeDim, Data: f.embed(content)}, nil
}

func (f *fakeEmbedder) EmbeddingForDocument(ctx context.Context, title string, content []string) (ai.EmbeddingResult, error) {
	f.mu.Lock()
	f.documentCalls++
	f.mu.Unlock()
	return ai.EmbeddingResult{Model: f.Model(), Dim: fakeDim, Data: f.embed(content)}, nil
}

func (f *fakeEmbedder) CountTokens(text string) (int, error) {
	return len(utils.Tokenize(text)), nil
}

func (f *fakeEmbedder) Model() string {
	return "fake-bow"
}

func (f *fakeEmbedder) Dim() int {
	return fakeDim
}

// fakeStore is an in-memory store.Store. It mirrors the sql implementation's
// ordering contracts so ranking tests behave the same against both.
type fakeStore struct {
	mu          sync.Mutex
	vectorIndex bool

	chunks   map[string]types.KnowledgeChunk
	vectors  map[string]types.Vector
	projects map[string]types.Project
	bullets  map[string]types.BulletPoint
	branches map[string]types.Branch
	pages    map[string]types.Page
	audios   map[string]types.AudioSummary
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vectorIndex: true,
		chunks:      make(map[string]types.KnowledgeChunk),
		vectors:     make(map[string]types.Vector),
		projects:    make(map[string]types.Project),
		bullets:     make(map[string]types.BulletPoint),
		branches:    make(map[string]types.Branch),
		pages:       make(map[string]types.Page),
		audios:      make(map[string]types.AudioSummary),
	}
}

func (s *fakeStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *fakeStore) HasVectorIndex() bool {
	return s.vectorIndex
}

func (s *fakeStore) KnowledgeChunkStore() store.KnowledgeChunkStore { return &fakeChunkStore{s} }
func (s *fakeStore) VectorStore() store.VectorStore                 { return &fakeVectorStore{s} }
func (s *fakeStore) ProjectStore() store.ProjectStore               { return &fakeProjectStore{s} }
func (s *fakeStore) BulletPointStore() store.BulletPointStore       { return &fakeBulletStore{s} }
func (s *fakeStore) BranchStore() store.BranchStore                 { return &fakeBranchStore{s} }
func (s *fakeStore) PageStore() store.PageStore                     { return &fakePageStore{s} }
func (s *fakeStore) AudioSummaryStore() store.AudioSummaryStore     { return &fakeAudioStore{s} }

type fakeCommons struct{}

func (fakeCommons) GetTable(...interface{}) string { return "fake" }

func matchChunk(c types.KnowledgeChunk, opts types.GetChunkOptions) bool {
	if opts.ID != "" && c.ID != opts.ID {
		return false
	}
	if len(opts.IDs) > 0 && !containsString(opts.IDs, c.ID) {
		return false
	}
	if opts.ResumeID != "" && c.ResumeID != opts.ResumeID {
		return false
	}
	if opts.SourceType != "" && c.SourceType != opts.SourceType {
		return false
	}
	if len(opts.SourceTypes) > 0 && !containsType(opts.SourceTypes, c.SourceType) {
		return false
	}
	if opts.SourceID != "" && c.SourceID != opts.SourceID {
		return false
	}
	return true
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func containsType(list []types.SourceType, v types.SourceType) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page, pageSize uint64) []T {
	if pageSize == types.NO_PAGING {
		return items
	}
	if page == 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= uint64(len(items)) {
		return nil
	}
	end := start + pageSize
	if end > uint64(len(items)) {
		end = uint64(len(items))
	}
	return items[start:end]
}

type fakeChunkStore struct{ s *fakeStore }

func (f *fakeChunkStore) GetTable(...interface{}) string { return "fake" }

func (f *fakeChunkStore) Create(ctx context.Context, data types.KnowledgeChunk) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.chunks[data.ID] = data
	return nil
}

func (f *fakeChunkStore) BatchCreate(ctx context.Context, data []*types.KnowledgeChunk) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, c := range data {
		f.s.chunks[c.ID] = *c
	}
	return nil
}

func (f *fakeChunkStore) Get(ctx context.Context, id string) (*types.KnowledgeChunk, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if c, ok := f.s.chunks[id]; ok {
		return &c, nil
	}
	return nil, nil
}

func (f *fakeChunkStore) DeleteBySource(ctx context.Context, resumeID string, sourceType types.SourceType, sourceID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, c := range f.s.chunks {
		if c.ResumeID == resumeID && c.SourceType == sourceType && c.SourceID == sourceID {
			delete(f.s.chunks, id)
		}
	}
	return nil
}

func (f *fakeChunkStore) List(ctx context.Context, opts types.GetChunkOptions, page, pageSize uint64) ([]types.KnowledgeChunk, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []types.KnowledgeChunk
	for _, c := range f.s.chunks {
		if matchChunk(c, opts) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, page, pageSize), nil
}

// Match mimics the AND semantics of plainto_tsquery: every query token has
// to appear in the chunk. Ordering is overlap count, then chunk id.
func (f *fakeChunkStore) Match(ctx context.Context, resumeID, query string, limit uint64, sourceTypes []types.SourceType) ([]types.KnowledgeChunk, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	queryTokens := utils.Tokenize(query)
	if len(queryTokens) == 0 {
		return nil, nil
	}

	var out []types.KnowledgeChunk
	for _, c := range f.s.chunks {
		if c.ResumeID != resumeID {
			continue
		}
		if len(sourceTypes) > 0 && !containsType(sourceTypes, c.SourceType) {
			continue
		}
		chunkTokens := make(map[string]struct{})
		for _, t := range utils.Tokenize(c.Chunk) {
			chunkTokens[t] = struct{}{}
		}
		all := true
		for _, t := range queryTokens {
			if _, ok := chunkTokens[t]; !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeVectorStore struct{ s *fakeStore }

func (f *fakeVectorStore) GetTable(...interface{}) string { return "fake" }

func (f *fakeVectorStore) Create(ctx context.Context, data types.Vector) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.vectors[data.ID] = data
	return nil
}

func (f *fakeVectorStore) BatchCreate(ctx context.Context, datas []types.Vector) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for _, v := range datas {
		f.s.vectors[v.ID] = v
	}
	return nil
}

func (f *fakeVectorStore) DeleteBySource(ctx context.Context, resumeID string, sourceType types.SourceType, sourceID string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	for id, v := range f.s.vectors {
		if v.ResumeID == resumeID && v.SourceType == sourceType && v.SourceID == sourceID {
			delete(f.s.vectors, id)
		}
	}
	return nil
}

func matchVector(v types.Vector, opts types.GetVectorsOptions) bool {
	if opts.ResumeID != "" && v.ResumeID != opts.ResumeID {
		return false
	}
	if opts.ChunkID != "" && v.ChunkID != opts.ChunkID {
		return false
	}
	if opts.SourceType != "" && v.SourceType != opts.SourceType {
		return false
	}
	if opts.SourceID != "" && v.SourceID != opts.SourceID {
		return false
	}
	if opts.Model != "" && v.Model != opts.Model {
		return false
	}
	if opts.Dim > 0 && v.Dim != opts.Dim {
		return false
	}
	return true
}

func (f *fakeVectorStore) ListVectors(ctx context.Context, opts types.GetVectorsOptions, page, pageSize uint64) ([]types.Vector, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []types.Vector
	for _, v := range f.s.vectors {
		if matchVector(v, opts) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkID < out[j].ChunkID })
	return paginate(out, page, pageSize), nil
}

// Query computes exact cosine similarity, ordered best first with chunk id
// as the tie breaker, the same contract as the native database path.
func (f *fakeVectorStore) Query(ctx context.Context, opts types.GetVectorsOptions, vector pgvector.Vector, limit uint64) ([]types.QueryResult, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	query := vector.Slice()
	var out []types.QueryResult
	for _, v := range f.s.vectors {
		if !matchVector(v, opts) {
			continue
		}
		out = append(out, types.QueryResult{
			ChunkID:    v.ChunkID,
			SourceType: v.SourceType,
			SourceID:   v.SourceID,
			Cos:        float32(retrieval.Cosine(query, v.Embedding.Slice())),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Cos != out[j].Cos {
			return out[i].Cos > out[j].Cos
		}
		return out[i].ChunkID < out[j].ChunkID
	})
	if limit > 0 && uint64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeProjectStore struct{ s *fakeStore }

func (f *fakeProjectStore) GetTable(...interface{}) string { return "fake" }

func (f *fakeProjectStore) Create(ctx context.Context, data types.Project) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.projects[data.ID] = data
	return nil
}

func (f *fakeProjectStore) Get(ctx context.Context, id string) (*types.Project, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if p, ok := f.s.projects[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakeProjectStore) Update(ctx context.Context, id string, data types.Project) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	data.ID = id
	f.s.projects[id] = data
	return nil
}

func (f *fakeProjectStore) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.projects, id)
	return nil
}

func (f *fakeProjectStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.Project, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []types.Project
	for _, p := range f.s.projects {
		if opts.ResumeID != "" && p.ResumeID != opts.ResumeID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type fakeBulletStore struct{ s *fakeStore }

func (f *fakeBulletStore) GetTable(...interface{}) string { return "fake" }

func (f *fakeBulletStore) Create(ctx context.Context, data types.BulletPoint) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.bullets[data.ID] = data
	return nil
}

func (f *fakeBulletStore) Get(ctx context.Context, id string) (*types.BulletPoint, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if b, ok := f.s.bullets[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBulletStore) Update(ctx context.Context, id string, data types.BulletPoint) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	data.ID = id
	f.s.bullets[id] = data
	return nil
}

func (f *fakeBulletStore) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.bullets, id)
	return nil
}

func (f *fakeBulletStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.BulletPoint, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []types.BulletPoint
	for _, b := range f.s.bullets {
		if opts.ResumeID != "" && b.ResumeID != opts.ResumeID {
			continue
		}
		if opts.ParentID != "" && b.ProjectID != opts.ParentID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type fakeBranchStore struct{ s *fakeStore }

func (f *fakeBranchStore) GetTable(...interface{}) string { return "fake" }

func (f *fakeBranchStore) Create(ctx context.Context, data types.Branch) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.branches[data.ID] = data
	return nil
}

func (f *fakeBranchStore) Get(ctx context.Context, id string) (*types.Branch, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if b, ok := f.s.branches[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (f *fakeBranchStore) Update(ctx context.Context, id string, data types.Branch) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	data.ID = id
	f.s.branches[id] = data
	return nil
}

func (f *fakeBranchStore) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.branches, id)
	return nil
}

func (f *fakeBranchStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.Branch, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []types.Branch
	for _, b := range f.s.branches {
		if opts.ResumeID != "" && b.ResumeID != opts.ResumeID {
			continue
		}
		if opts.ParentID != "" && b.BulletID != opts.ParentID {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type fakePageStore struct{ s *fakeStore }

func (f *fakePageStore) GetTable(...interface{}) string { return "fake" }

func (f *fakePageStore) Create(ctx context.Context, data types.Page) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.pages[data.ID] = data
	return nil
}

func (f *fakePageStore) Get(ctx context.Context, id string) (*types.Page, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if p, ok := f.s.pages[id]; ok {
		return &p, nil
	}
	return nil, nil
}

func (f *fakePageStore) Update(ctx context.Context, id string, data types.Page) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	data.ID = id
	f.s.pages[id] = data
	return nil
}

func (f *fakePageStore) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.pages, id)
	return nil
}

func (f *fakePageStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.Page, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []types.Page
	for _, p := range f.s.pages {
		if opts.ResumeID != "" && p.ResumeID != opts.ResumeID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

type fakeAudioStore struct{ s *fakeStore }

func (f *fakeAudioStore) GetTable(...interface{}) string { return "fake" }

func (f *fakeAudioStore) Create(ctx context.Context, data types.AudioSummary) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.audios[data.ID] = data
	return nil
}

func (f *fakeAudioStore) Get(ctx context.Context, id string) (*types.AudioSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if a, ok := f.s.audios[id]; ok {
		return &a, nil
	}
	return nil, nil
}

func (f *fakeAudioStore) Update(ctx context.Context, id string, data types.AudioSummary) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	data.ID = id
	f.s.audios[id] = data
	return nil
}

func (f *fakeAudioStore) Delete(ctx context.Context, id string) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	delete(f.s.audios, id)
	return nil
}

func (f *fakeAudioStore) List(ctx context.Context, opts types.ListEntityOptions) ([]types.AudioSummary, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []types.AudioSummary
	for _, a := range f.s.audios {
		if opts.ResumeID != "" && a.ResumeID != opts.ResumeID {
			continue
		}
		if opts.ParentID != "" && a.PageID != opts.ParentID {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type testEnv struct {
	core     *core.Core
	store    *fakeStore
	embedder *fakeEmbedder
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := newFakeStore()
	embedder := &fakeEmbedder{}
	c := core.NewCore(core.CoreConfig{}, s, srv.ApplyAIDriver(embedder))
	return &testEnv{core: c, store: s, embedder: embedder}
}

// seedProject puts a project entity directly into the store and returns it.
func (e *testEnv) seedProject(t *testing.T, resumeID, title string, position int) types.Project {
	t.Helper()
	p := types.Project{
		ID:       utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_PROJECT)),
		ResumeID: resumeID,
		Title:    title,
		Position: position,
	}
	e.store.mu.Lock()
	e.store.projects[p.ID] = p
	e.store.mu.Unlock()
	return p
}

func (e *testEnv) seedBullet(t *testing.T, resumeID, projectID, content string, position int) types.BulletPoint {
	t.Helper()
	b := types.BulletPoint{
		ID:        utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_BULLET_POINT)),
		ResumeID:  resumeID,
		ProjectID: projectID,
		Content:   content,
		Position:  position,
	}
	e.store.mu.Lock()
	e.store.bullets[b.ID] = b
	e.store.mu.Unlock()
	return b
}

func (e *testEnv) seedBranch(t *testing.T, resumeID, bulletID, content string, position int) types.Branch {
	t.Helper()
	b := types.Branch{
		ID:       utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_BRANCH)),
		ResumeID: resumeID,
		BulletID: bulletID,
		Content:  content,
		Position: position,
	}
	e.store.mu.Lock()
	e.store.branches[b.ID] = b
	e.store.mu.Unlock()
	return b
}

func (e *testEnv) seedPage(t *testing.T, resumeID, title string, position int) types.Page {
	t.Helper()
	p := types.Page{
		ID:       utils.GenSourceID(types.SourceIDPrefix(types.SOURCE_TYPE_PAGE)),
		ResumeID: resumeID,
		Title:    title,
		Position: position,
	}
	e.store.mu.Lock()
	e.store.pages[p.ID] = p
	e.store.mu.Unlock()
	return p
}

// indexSource runs the synchronous chunk replacement for a seeded entity.
func (e *testEnv) indexSource(t *testing.T, resumeID string, sourceType types.SourceType, sourceID, text string) {
	t.Helper()
	logic := NewKnowledgeLogic(context.Background(), e.core)
	if err := logic.ReplaceSourceChunks(resumeID, sourceType, sourceID, text); err != nil {
		t.Fatalf("replace source chunks: %v", err)
	}
}

func (e *testEnv) chunksForSource(sourceID string) []types.KnowledgeChunk {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	var out []types.KnowledgeChunk
	for _, c := range e.store.chunks {
		if c.SourceID == sourceID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out
}

func (e *testEnv) vectorsForSource(sourceID string) []types.Vector {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	var out []types.Vector
	for _, v := range e.store.vectors {
		if v.SourceID == sourceID {
			out = append(out, v)
		}
	}
	return out
}

func pgvectorOf(vals ...float32) pgvector.Vector {
	return pgvector.NewVector(vals)
}

// longText builds text that splits into several chunks at the given chunk
// size without repeating a token pattern that would confuse overlap tests.
func longText(sentence string, repeats int) string {
	var b strings.Builder
	for i := 0; i < repeats; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(sentence)
	}
	return b.String()
}
