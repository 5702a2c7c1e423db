package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillshare/internal/config"
	"skillshare/internal/devserver"
	"skillshare/internal/model"
	"skillshare/internal/session"
	"skillshare/internal/upload"
)

const testSecret = "test-secret"

// =============================================================================
// Test Helpers
// =============================================================================

type harness struct {
	app    *App
	out    *bytes.Buffer
	errOut *bytes.Buffer

	mu     sync.Mutex
	writes []string
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()
	store := devserver.NewStore()
	require.NoError(t, devserver.Seed(store))
	router := devserver.NewRouter(devserver.RouterConfig{
		Handler:   devserver.NewHandler(store, testSecret, nil),
		JWTSecret: testSecret,
	})
	h := &harness{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			h.mu.Lock()
			h.writes = append(h.writes, r.Method+" "+r.URL.Path)
			h.mu.Unlock()
		}
		router.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		AppEnv:         "test",
		APIBaseURL:     srv.URL + "/api",
		HTTPTimeout:    5 * time.Second,
		ReconcileDelay: time.Hour,
		SessionStore:   config.SessionStoreMemory,
		JWTSecret:      testSecret,
	}
	h.app = New(cfg, nil, strings.NewReader(stdin), h.out, h.errOut)
	t.Cleanup(func() { _ = h.app.Close() })
	return h
}

// run executes one command and returns its exit code, resetting the
// captured output first.
func (h *harness) run(args ...string) int {
	h.out.Reset()
	h.errOut.Reset()
	return h.app.Run(context.Background(), args)
}

// mutations returns the non-GET requests the server has seen since the last
// call.
func (h *harness) mutations() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	got := h.writes
	h.writes = nil
	return got
}

func (h *harness) login(t *testing.T, username string) {
	t.Helper()
	require.Equal(t, ExitOK, h.run("login", "--password", devserver.DemoPassword, username), h.errOut.String())
}

func (h *harness) postID(t *testing.T, title string) string {
	t.Helper()
	require.NoError(t, h.app.connect(context.Background()))
	posts, err := h.app.api.Posts.List(context.Background())
	require.NoError(t, err)
	for _, p := range posts {
		if p.Title == title {
			return p.ID
		}
	}
	t.Fatalf("post %q not found", title)
	return ""
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "pic.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

type fakeUploader struct {
	folders []string
	names   []string
}

func (f *fakeUploader) Upload(_ context.Context, folder string, file upload.File, onProgress upload.ProgressFunc) (string, error) {
	if _, err := io.Copy(io.Discard, file.Body); err != nil {
		return "", err
	}
	if onProgress != nil {
		onProgress(100)
	}
	f.folders = append(f.folders, folder)
	f.names = append(f.names, file.Name)
	return "https://cdn.example.com/" + folder + "/" + file.Name, nil
}

// =============================================================================
// Dispatch
// =============================================================================

func TestRun_UsageAndUnknownCommand(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, ExitUsage, h.run())
	assert.Contains(t, h.errOut.String(), "progress-stats")

	assert.Equal(t, ExitOK, h.run("help"))

	assert.Equal(t, ExitUsage, h.run("frobnicate"))
	assert.Contains(t, h.errOut.String(), `unknown command "frobnicate"`)

	assert.Equal(t, ExitUsage, h.run("react", "only-one-arg"))
	assert.Contains(t, h.errOut.String(), "usage: skillshare react POST_ID REACTION")
}

// =============================================================================
// Auth
// =============================================================================

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t, "")

	assert.Equal(t, ExitError, h.run("whoami"))
	assert.Contains(t, h.errOut.String(), "You must log in first")

	h.login(t, "alice")
	assert.Contains(t, h.out.String(), "Welcome back, Alice Nguyen!")

	require.Equal(t, ExitOK, h.run("whoami"))
	assert.Contains(t, h.out.String(), "Alice Nguyen (@alice)")
	assert.Contains(t, h.out.String(), "alice@example.com")

	require.Equal(t, ExitOK, h.run("logout"))
	assert.Equal(t, ExitError, h.run("whoami"))
}

func TestLogin_PromptsForPassword(t *testing.T) {
	h := newHarness(t, devserver.DemoPassword+"\n")
	require.Equal(t, ExitOK, h.run("login", "bob"), h.errOut.String())
	assert.Contains(t, h.out.String(), "Password: ")
	assert.Contains(t, h.out.String(), "Welcome back, Bob Tran!")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, ExitError, h.run("login", "--password", "nope", "alice"))
	assert.False(t, h.app.session.Authenticated())
}

func TestRegister(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, ExitOK, h.run("register", "--username", "dave", "--email", "dave@example.com", "--password", "pw123456"), h.errOut.String())
	assert.Contains(t, h.out.String(), "Account dave created")

	h.login(t, "dave")
}

// =============================================================================
// Feed, reactions, comments
// =============================================================================

func TestFeed_ShowsReactions(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, ExitOK, h.run("feed"))
	out := h.out.String()
	assert.Contains(t, out, "My first Go service")
	assert.Contains(t, out, "#go #backend")
	assert.Contains(t, out, "❤️ 1")
	assert.Contains(t, out, "no reactions")
}

func TestReact_SelectSwitchAndClear(t *testing.T) {
	h := newHarness(t, "")
	postID := h.postID(t, "My first Go service")

	assert.Equal(t, ExitError, h.run("react", postID, "like"))
	assert.Contains(t, h.errOut.String(), "You must log in first")

	h.login(t, "alice")

	require.Equal(t, ExitOK, h.run("react", postID, "like"), h.errOut.String())
	assert.Equal(t, "👍 1  ❤️ 1  (you: Like)\n", h.out.String())

	require.Equal(t, ExitOK, h.run("react", postID, "heart"))
	assert.Equal(t, "❤️ 2  (you: Heart)\n", h.out.String())

	require.Equal(t, ExitOK, h.run("react", postID, "heart"))
	assert.Equal(t, "❤️ 1\n", h.out.String())

	require.Equal(t, ExitOK, h.run("react", postID, "none"))
	assert.Equal(t, "❤️ 1\n", h.out.String())

	assert.Equal(t, ExitError, h.run("react", postID, "meh"))
}

func TestComments_AddEditDelete(t *testing.T) {
	h := newHarness(t, "n\n")
	postID := h.postID(t, "My first Go service")
	h.login(t, "carol")

	require.Equal(t, ExitOK, h.run("comments", "--add", "Great write-up", postID), h.errOut.String())
	out := h.out.String()
	assert.Contains(t, out, "2 comment(s)")
	assert.Contains(t, out, "Great write-up")
	assert.Contains(t, out, "[you can edit, delete]")

	var mine string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "@carol") {
			mine = strings.Fields(line)[0]
		}
	}
	require.NotEmpty(t, mine)

	require.Equal(t, ExitOK, h.run("comments", "--edit", mine, "--content", "Great write-up!", postID))
	assert.Contains(t, h.out.String(), "Great write-up!")
	assert.Contains(t, h.out.String(), "(edited)")

	require.Equal(t, ExitOK, h.run("comments", "--edit", mine, "--content", "   ", postID))
	assert.Contains(t, h.out.String(), "Nothing to change.")

	// stdin answers "n" to the confirmation prompt.
	assert.Equal(t, ExitError, h.run("comments", "--delete", mine, postID))
	assert.Contains(t, h.errOut.String(), "Cancelled.")

	require.Equal(t, ExitOK, h.run("comments", "--delete", mine, "--yes", postID))
	assert.Contains(t, h.out.String(), "1 comment(s)")
}

func TestComments_PostOwnerMayDeleteOthers(t *testing.T) {
	h := newHarness(t, "")
	postID := h.postID(t, "My first Go service")
	h.login(t, "alice")

	require.Equal(t, ExitOK, h.run("comments", postID))
	assert.Contains(t, h.out.String(), "Nice work!")
	assert.Contains(t, h.out.String(), "[you can delete]")
}

func TestPost_UploadsMediaAndCreates(t *testing.T) {
	h := newHarness(t, "")
	up := &fakeUploader{}
	h.app.up = up
	h.login(t, "bob")

	assert.Equal(t, ExitError, h.run("post", "--title", "Hi", "--description", "short"))
	assert.Contains(t, h.errOut.String(), "title: Title must be between 3 and 100 characters")
	assert.Contains(t, h.errOut.String(), "media: At least one media file is required")
	assert.Empty(t, up.names)

	path := writePNG(t, 8, 8)
	require.Equal(t, ExitOK, h.run("post", "--title", "Evening sketch", "--description", "Charcoal on paper", "--tag", "art", "--tag", " art ", "--media", path), h.errOut.String())
	assert.Contains(t, h.out.String(), "Posted Evening sketch")
	assert.Equal(t, []string{model.PostMediaFolder}, up.folders)

	require.Equal(t, ExitOK, h.run("feed", "--user", "me"))
	assert.Contains(t, h.out.String(), "Evening sketch")
	assert.Contains(t, h.out.String(), "#art\n")
}

// =============================================================================
// Plans and progress
// =============================================================================

func TestPlans_FilterAndSort(t *testing.T) {
	h := newHarness(t, "")

	require.Equal(t, ExitOK, h.run("plans", "--sort", "alphabetical"))
	out := h.out.String()
	assert.Less(t, strings.Index(out, "Applied statistics"), strings.Index(out, "Learn Go concurrency"))

	require.Equal(t, ExitOK, h.run("plans", "--category", model.CategoryDataScience))
	assert.Contains(t, h.out.String(), "Applied statistics")
	assert.NotContains(t, h.out.String(), "Learn Go concurrency")

	require.Equal(t, ExitOK, h.run("plans", "--search", "CONCURRENCY"))
	assert.Contains(t, h.out.String(), "Learn Go concurrency")

	require.Equal(t, ExitOK, h.run("plans", "--level", model.SkillExpert))
	assert.Contains(t, h.out.String(), "No learning plans match.")
}

func TestPlanCreate(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "carol")

	assert.Equal(t, ExitError, h.run("plan-create", "--title", "Go"))
	errs := h.errOut.String()
	assert.Contains(t, errs, "Please fix the following:")
	assert.Contains(t, errs, "title: Title must be between 5 and 100 characters")
	assert.Contains(t, errs, "category: Please select a category")

	require.Equal(t, ExitOK, h.run("plan-create",
		"--title", "Kubernetes basics",
		"--description", "Pods, deployments and services.",
		"--category", model.CategoryDevOps,
		"--level", model.SkillBeginner,
		"--hours", "12",
		"--tag", "k8s",
		"--unit", "Pods:4",
		"--unit", "Services",
	), h.errOut.String())
	assert.Contains(t, h.out.String(), "Created learning plan Kubernetes basics")

	require.Equal(t, ExitOK, h.run("plans", "--user", "me"))
	line := strings.TrimSpace(h.out.String())
	assert.Contains(t, line, "[DevOps, Beginner]  12h")
	id := strings.Fields(line)[0]

	require.Equal(t, ExitOK, h.run("plan", id))
	assert.Contains(t, h.out.String(), "1. Pods")
	assert.Contains(t, h.out.String(), " 4h")
	assert.Contains(t, h.out.String(), "2. Services")
}

func TestParseUnit(t *testing.T) {
	assert.Equal(t, "Pods", parseUnit("Pods:4").Title)
	assert.Equal(t, "4", parseUnit("Pods:4").EstimatedHours)
	assert.Equal(t, "Ratio 1:x", parseUnit("Ratio 1:x").Title)
	assert.Equal(t, "Plain", parseUnit("Plain").Title)
	assert.Empty(t, parseUnit("Plain").EstimatedHours)
}

func TestProgressAddAndStats(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "alice")

	assert.Equal(t, ExitError, h.run("progress-add", "--title", "Short", "--content", "Long enough content", "--hours", "3.5", "--type", "milestone"))
	assert.Contains(t, h.errOut.String(), "hoursSpent: Hours spent must be a positive number")

	require.Equal(t, ExitOK, h.run("progress-add",
		"--title", "Channels deep dive",
		"--content", "Buffered versus unbuffered channels.",
		"--hours", "2",
		"--type", "daily_update",
		"--rating", "2",
		"--achievement", "Pipeline pattern",
	), h.errOut.String())
	assert.Contains(t, h.out.String(), "Logged Channels deep dive")

	require.Equal(t, ExitOK, h.run("progress-stats"))
	out := h.out.String()
	assert.Contains(t, out, "total hours:    5\n")
	assert.Contains(t, out, "updates:        2\n")
	assert.Contains(t, out, "this week:      2\n")
	assert.Contains(t, out, "average rating: 3.0\n")

	require.Equal(t, ExitOK, h.run("progress", "--type", "DAILY_UPDATE"))
	assert.Contains(t, h.out.String(), "Channels deep dive")
	assert.Contains(t, h.out.String(), "+ Pipeline pattern")
	assert.NotContains(t, h.out.String(), "Finished the goroutines unit")
}

func TestProgressAdd_UnknownUnit(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "alice")

	require.Equal(t, ExitOK, h.run("plans", "--user", "me"))
	planID := strings.Fields(h.out.String())[0]

	assert.Equal(t, ExitError, h.run("progress-add",
		"--title", "Context cancellation",
		"--content", "Propagating deadlines properly.",
		"--hours", "1",
		"--type", "REFLECTION",
		"--plan", planID,
		"--unit", "missing-unit",
	))
	assert.Contains(t, h.errOut.String(), "learningUnitId: Please select a learning unit")
}

func (h *harness) planID(t *testing.T, title string) string {
	t.Helper()
	require.NoError(t, h.app.connect(context.Background()))
	page, err := h.app.api.Plans.ListPublic(context.Background())
	require.NoError(t, err)
	for _, p := range page.Content {
		if p.Title == title {
			return p.ID
		}
	}
	t.Fatalf("plan %q not found", title)
	return ""
}

func (h *harness) progressID(t *testing.T, title string) string {
	t.Helper()
	require.NoError(t, h.app.connect(context.Background()))
	updates, err := h.app.api.Progress.List(context.Background())
	require.NoError(t, err)
	for _, u := range updates {
		if u.Title == title {
			return u.ID
		}
	}
	t.Fatalf("progress update %q not found", title)
	return ""
}

func TestPlanEdit_Owner(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "alice")
	id := h.planID(t, "Learn Go concurrency")

	before, err := h.app.api.Plans.Get(context.Background(), id)
	require.NoError(t, err)

	require.Equal(t, ExitOK, h.run("plan-edit", "--title", "Go concurrency in practice", "--hours", "25", id), h.errOut.String())
	assert.Contains(t, h.out.String(), "Updated learning plan Go concurrency in practice")

	after, err := h.app.api.Plans.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 25, after.EstimatedHours)
	assert.Equal(t, before.Description, after.Description)
	assert.Equal(t, before.Tags, after.Tags)
	require.Len(t, after.LearningUnits, 3)
	for i := range before.LearningUnits {
		assert.Equal(t, before.LearningUnits[i].UnitID, after.LearningUnits[i].UnitID)
		assert.Equal(t, before.LearningUnits[i].Completed, after.LearningUnits[i].Completed)
	}

	h.mutations()
	require.Equal(t, ExitOK, h.run("plan-edit", id))
	assert.Contains(t, h.out.String(), "Nothing to change.")
	assert.Empty(t, h.mutations())

	assert.Equal(t, ExitError, h.run("plan-edit", "--category", "Cooking", id))
	assert.Contains(t, h.errOut.String(), "category: Please select a category")
}

func TestPlanEditAndDelete_NotOwner(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "bob")
	id := h.planID(t, "Learn Go concurrency")
	h.mutations()

	assert.Equal(t, ExitError, h.run("plan-edit", "--title", "Hijacked plan title", id))
	assert.Contains(t, h.errOut.String(), model.ErrNotPlanOwner.Error())

	assert.Equal(t, ExitError, h.run("plan-delete", "--yes", id))
	assert.Contains(t, h.errOut.String(), model.ErrNotPlanOwner.Error())

	assert.Empty(t, h.mutations())
	p, err := h.app.api.Plans.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Learn Go concurrency", p.Title)
}

func TestPlanDelete_Owner(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "bob")
	id := h.planID(t, "Applied statistics")

	require.Equal(t, ExitOK, h.run("plan-delete", "--yes", id), h.errOut.String())
	assert.Contains(t, h.out.String(), "Learning plan deleted.")

	require.Equal(t, ExitOK, h.run("plans", "--user", "me"))
	assert.Contains(t, h.out.String(), "No learning plans match.")
}

func TestProgressEdit_Owner(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "alice")
	id := h.progressID(t, "Finished the goroutines unit")

	require.Equal(t, ExitOK, h.run("progress-edit",
		"--hours", "4",
		"--rating", "5",
		"--achievement", "Worker pool",
		"--achievement", "Fan-in pattern",
		id,
	), h.errOut.String())
	assert.Contains(t, h.out.String(), "Updated Finished the goroutines unit")

	u, err := h.app.api.Progress.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 4, u.HoursSpent)
	assert.Equal(t, 5, u.RatingOrZero())
	assert.Equal(t, []string{"Worker pool", "Fan-in pattern"}, u.Achievements)
	assert.Equal(t, []string{"Deadlocks"}, u.Challenges)
	assert.Equal(t, model.ProgressMilestone, u.Type)

	assert.Equal(t, ExitError, h.run("progress-edit", "--hours", "99999999999999999999", id))
	assert.Contains(t, h.errOut.String(), "hoursSpent: Hours spent must be a positive number")
}

func TestProgressEditAndDelete_NotOwner(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "bob")
	id := h.progressID(t, "Finished the goroutines unit")
	h.mutations()

	assert.Equal(t, ExitError, h.run("progress-edit", "--hours", "1", id))
	assert.Contains(t, h.errOut.String(), model.ErrNotProgressOwner.Error())

	assert.Equal(t, ExitError, h.run("progress-delete", "--yes", id))
	assert.Contains(t, h.errOut.String(), model.ErrNotProgressOwner.Error())

	assert.Empty(t, h.mutations())
	u, err := h.app.api.Progress.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 3, u.HoursSpent)
}

func TestProgressDelete_Owner(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "alice")
	id := h.progressID(t, "Finished the goroutines unit")

	require.Equal(t, ExitOK, h.run("progress-delete", "--yes", id), h.errOut.String())
	assert.Contains(t, h.out.String(), "Progress update deleted.")

	require.Equal(t, ExitOK, h.run("progress-stats"))
	assert.Contains(t, h.out.String(), "updates:        0\n")
}

// =============================================================================
// Chat
// =============================================================================

func TestChat_SendToContact(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "alice")

	require.Equal(t, ExitOK, h.run("chat", "--to", "bob", "--send", "Thanks, Bob!"), h.errOut.String())
	out := h.out.String()
	assert.Contains(t, out, "Chat with Bob Tran")
	assert.Contains(t, out, "bob: Hey, saw your Go post!")
	assert.Contains(t, out, "You: Thanks, Bob!")

	assert.Equal(t, ExitError, h.run("chat", "--to", "nobody"))
	assert.Contains(t, h.errOut.String(), `no user named "nobody"`)

	assert.Equal(t, ExitUsage, h.run("chat", "--send", "hi"))
}

func TestChat_NewConversation(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "carol")

	require.Equal(t, ExitOK, h.run("chat", "--to", "bob"))
	assert.Contains(t, h.out.String(), "No messages yet. Say hello!")

	require.Equal(t, ExitOK, h.run("chat", "--to", "bob", "--send", "hello"))
	assert.Contains(t, h.out.String(), "You: hello")
}

// =============================================================================
// Profile and account
// =============================================================================

func TestProfile_ShowAndEdit(t *testing.T) {
	h := newHarness(t, "")
	h.login(t, "alice")

	require.Equal(t, ExitOK, h.run("profile"))
	assert.Contains(t, h.out.String(), "Alice Nguyen (@alice)")

	assert.Equal(t, ExitError, h.run("profile", "--phone", "12345"))
	assert.Contains(t, h.errOut.String(), "contactNumber: Contact number must be 10 digits")

	thisYear := time.Now().Format("2006") + "-01-01"
	assert.Equal(t, ExitError, h.run("profile", "--birthday", thisYear))
	assert.Contains(t, h.errOut.String(), "birthday: You must be at least 10 years old")

	require.Equal(t, ExitOK, h.run("profile", "--bio", "Gopher", "--phone", "0123456789"), h.errOut.String())
	assert.Contains(t, h.out.String(), "Profile updated.")
	assert.Contains(t, h.out.String(), "bio:      Gopher")
	assert.Contains(t, h.out.String(), "phone:    0123456789")
}

func TestUpload_Avatar(t *testing.T) {
	h := newHarness(t, "")
	up := &fakeUploader{}
	h.app.up = up
	h.login(t, "bob")

	require.Equal(t, ExitOK, h.run("upload", "--avatar", writePNG(t, 300, 120)), h.errOut.String())
	assert.Equal(t, []string{model.AvatarFolder}, up.folders)
	assert.Equal(t, []string{"pic.jpg"}, up.names)
	assert.Contains(t, h.errOut.String(), "100%")

	require.Equal(t, ExitOK, h.run("profile"))
	assert.Contains(t, h.out.String(), "https://cdn.example.com/profile-images/pic.jpg")
}

func TestUpload_PlainFile(t *testing.T) {
	h := newHarness(t, "")
	h.app.up = &fakeUploader{}
	h.login(t, "bob")

	require.Equal(t, ExitOK, h.run("upload", "--folder", "misc", writePNG(t, 4, 4)))
	assert.Equal(t, "https://cdn.example.com/misc/pic.png\n", h.out.String())
}

func TestDeleteAccount(t *testing.T) {
	h := newHarness(t, "no\n")
	h.login(t, "carol")

	assert.Equal(t, ExitError, h.run("delete-account"))
	assert.Contains(t, h.errOut.String(), "Cancelled.")

	require.Equal(t, ExitOK, h.run("delete-account", "--yes"))
	assert.Contains(t, h.out.String(), "Your account has been deleted.")
	assert.Equal(t, ExitError, h.run("whoami"))
	assert.Equal(t, ExitError, h.run("login", "--password", devserver.DemoPassword, "carol"))
}

// =============================================================================
// Session stores
// =============================================================================

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	store, closer, err := openStore(ctx, &config.Config{SessionStore: config.SessionStoreMemory}, nil)
	require.NoError(t, err)
	assert.Nil(t, closer)
	assert.IsType(t, &session.MemoryStore{}, store)

	path := filepath.Join(t.TempDir(), "s.json")
	store, _, err = openStore(ctx, &config.Config{SessionStore: config.SessionStoreFile, SessionFile: path}, nil)
	require.NoError(t, err)
	assert.IsType(t, &session.FileStore{}, store)

	_, _, err = openStore(ctx, &config.Config{SessionStore: "floppy"}, nil)
	assert.ErrorContains(t, err, `unknown session store "floppy"`)
}

func TestLogin_PersistsAcrossApps(t *testing.T) {
	h := newHarness(t, "")
	path := filepath.Join(t.TempDir(), "session.json")
	h.app.cfg.SessionStore = config.SessionStoreFile
	h.app.cfg.SessionFile = path
	h.login(t, "alice")

	again := New(h.app.cfg, nil, strings.NewReader(""), h.out, h.errOut)
	h.out.Reset()
	require.Equal(t, ExitOK, again.Run(context.Background(), []string{"whoami"}))
	assert.Contains(t, h.out.String(), "@alice")
}
