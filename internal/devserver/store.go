package devserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"skillshare/internal/model"
)

type account struct {
	user         model.User
	passwordHash []byte
}

// Store is the dev server's in-memory state. Every method takes the acting
// user's id where ownership matters and returns copies.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	accounts      []*account
	posts         []*model.Post
	likes         map[string]map[string]model.Like // postID -> userID
	comments      []*model.Comment
	plans         []*model.LearningPlan
	planLikes     map[string]map[string]bool // planID -> userID
	progress      []*model.ProgressUpdate
	conversations []*model.Conversation
	messages      []*model.Message
}

func NewStore() *Store {
	return &Store{
		now:       time.Now,
		likes:     make(map[string]map[string]model.Like),
		planLikes: make(map[string]map[string]bool),
	}
}

func newID() string {
	return uuid.NewString()
}

// =============================================================================
// Users
// =============================================================================

func (s *Store) Register(req model.RegisterRequest) (model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return model.User{}, model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountByUsername(username) != nil {
		return model.User{}, model.ErrUsernameExists
	}
	acc := &account{
		user: model.User{
			ID:           newID(),
			Username:     username,
			Email:        strings.TrimSpace(req.Email),
			FirstName:    strings.TrimSpace(req.FirstName),
			LastName:     strings.TrimSpace(req.LastName),
			PublicStatus: true,
		},
		passwordHash: hash,
	}
	s.accounts = append(s.accounts, acc)
	return acc.user, nil
}

func (s *Store) Authenticate(username, password string) (model.User, error) {
	s.mu.RLock()
	acc := s.accountByUsername(strings.TrimSpace(username))
	s.mu.RUnlock()

	if acc == nil {
		return model.User{}, model.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}
	return acc.user, nil
}

func (s *Store) accountByUsername(username string) *account {
	for _, a := range s.accounts {
		if strings.EqualFold(a.user.Username, username) {
			return a
		}
	}
	return nil
}

func (s *Store) accountByID(id string) *account {
	for _, a := range s.accounts {
		if a.user.ID == id {
			return a
		}
	}
	return nil
}

func (s *Store) summary(userID string) model.UserSummary {
	if a := s.accountByID(userID); a != nil {
		return a.user.Summary()
	}
	return model.UserSummary{ID: userID}
}

func (s *Store) User(id string) (model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a := s.accountByID(id); a != nil {
		return a.user, nil
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.User, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.user)
	}
	return out
}

func (s *Store) UpdateUser(actorID, id string, req model.UpdateUserRequest) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.accountByID(id)
	if a == nil {
		return model.User{}, model.ErrUserNotFound
	}
	if actorID != id {
		return model.User{}, model.ErrNotAccountOwner
	}

	u := &a.user
	u.FirstName = strings.TrimSpace(req.FirstName)
	u.LastName = strings.TrimSpace(req.LastName)
	u.Bio = req.Bio
	u.ContactNumber = req.ContactNumber
	u.Gender = req.Gender
	u.Address = req.Address
	u.Birthday = req.Birthday
	u.PublicStatus = req.PublicStatus
	if req.ProfileImageURL != "" {
		u.ProfileImageURL = req.ProfileImageURL
	}
	return *u, nil
}

// DeleteUser removes the account and everything it owns.
func (s *Store) DeleteUser(actorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.accountByID(id) == nil {
		return model.ErrUserNotFound
	}
	if actorID != id {
		return model.ErrNotAccountOwner
	}

	s.accounts = filter(s.accounts, func(a *account) bool { return a.user.ID != id })
	s.posts = filter(s.posts, func(p *model.Post) bool { return p.User.ID != id })
	s.comments = filter(s.comments, func(c *model.Comment) bool { return c.User.ID != id })
	s.plans = filter(s.plans, func(p *model.LearningPlan) bool { return p.User.ID != id })
	s.progress = filter(s.progress, func(p *model.ProgressUpdate) bool { return p.User.ID != id })
	for _, byUser := range s.likes {
		delete(byUser, id)
	}
	return nil
}

// =============================================================================
// Posts & likes
// =============================================================================

func (s *Store) CreatePost(actorID string, req model.CreatePostRequest) (model.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if req.Privacy == "" {
		req.Privacy = model.PrivacyPublic
	}
	p := &model.Post{
		ID:             newID(),
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Media:          append([]model.PostMedia(nil), req.Media...),
		Privacy:        req.Privacy,
		Tags:           append([]string(nil), req.Tags...),
		Location:       req.Location,
		MentionedUsers: append([]string(nil), req.MentionedUsers...),
		User:           s.summary(actorID),
		CreatedAt:      s.now(),
	}
	s.posts = append(s.posts, p)
	return *p, nil
}

func (s *Store) findPost(id string) *model.Post {
	for _, p := range s.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) Post(id string) (model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.findPost(id); p != nil {
		return *p, nil
	}
	return model.Post{}, model.ErrPostNotFound
}

// Posts returns the feed visible to viewerID, newest first.
func (s *Store) Posts(viewerID string) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Post, 0, len(s.posts))
	for i := len(s.posts) - 1; i >= 0; i-- {
		p := s.posts[i]
		if p.Privacy == model.PrivacyPublic || p.User.ID == viewerID {
			out = append(out, *p)
		}
	}
	return out
}

func (s *Store) PostsByUser(userID string) []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.Post{}
	for i := len(s.posts) - 1; i >= 0; i-- {
		if s.posts[i].User.ID == userID {
			out = append(out, *s.posts[i])
		}
	}
	return out
}

func (s *Store) DeletePost(actorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPost(id)
	if p == nil {
		return model.ErrPostNotFound
	}
	if p.User.ID != actorID {
		return model.ErrNotPostOwner
	}
	s.posts = filter(s.posts, func(p *model.Post) bool { return p.ID != id })
	s.comments = filter(s.comments, func(c *model.Comment) bool { return c.PostID != id })
	delete(s.likes, id)
	return nil
}

// ToggleLike sets the actor's reaction. Sending no reaction, or the one
// already held, removes it and returns nil.
func (s *Store) ToggleLike(actorID, postID string, reaction model.ReactionType) (*model.Like, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findPost(postID) == nil {
		return nil, model.ErrPostNotFound
	}
	byUser := s.likes[postID]
	if byUser == nil {
		byUser = make(map[string]model.Like)
		s.likes[postID] = byUser
	}

	current, had := byUser[actorID]
	if reaction == model.ReactionNone || (had && current.ReactionType == reaction) {
		delete(byUser, actorID)
		return nil, nil
	}

	like := model.Like{
		ID:           current.ID,
		PostID:       postID,
		UserID:       actorID,
		ReactionType: reaction,
		CreatedAt:    s.now(),
	}
	if like.ID == "" {
		like.ID = newID()
	}
	byUser[actorID] = like
	return &like, nil
}

func (s *Store) Unlike(actorID, postID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findPost(postID) == nil {
		return model.ErrPostNotFound
	}
	delete(s.likes[postID], actorID)
	return nil
}

func (s *Store) LikeSummary(viewerID, postID string) (model.LikeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.findPost(postID) == nil {
		return model.LikeSummary{}, model.ErrPostNotFound
	}
	sum := model.LikeSummary{ReactionCounts: map[model.ReactionType]int{}}
	for userID, like := range s.likes[postID] {
		sum.Count++
		sum.ReactionCounts[like.ReactionType]++
		if userID == viewerID {
			sum.Liked = true
			sum.ReactionType = like.ReactionType
		}
	}
	return sum, nil
}

// =============================================================================
// Comments
// =============================================================================

func (s *Store) findComment(id string) *model.Comment {
	for _, c := range s.comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Comments returns a post's comments, newest first.
func (s *Store) Comments(postID string) ([]model.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.findPost(postID) == nil {
		return nil, model.ErrPostNotFound
	}
	out := []model.Comment{}
	for i := len(s.comments) - 1; i >= 0; i-- {
		if s.comments[i].PostID == postID {
			out = append(out, *s.comments[i])
		}
	}
	return out, nil
}

func (s *Store) CreateComment(actorID string, req model.CreateCommentRequest) (model.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.Comment{}, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return model.Comment{}, model.ErrContentTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findPost(req.PostID) == nil {
		return model.Comment{}, model.ErrPostNotFound
	}
	c := &model.Comment{
		ID:        newID(),
		PostID:    req.PostID,
		Content:   content,
		User:      s.summary(actorID),
		CreatedAt: s.now(),
	}
	s.comments = append(s.comments, c)
	return *c, nil
}

func (s *Store) UpdateComment(actorID, id, content string) (model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Comment{}, model.ErrContentRequired
	}
	if len(content) > model.MaxCommentLength {
		return model.Comment{}, model.ErrContentTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findComment(id)
	if c == nil {
		return model.Comment{}, model.ErrCommentNotFound
	}
	if c.User.ID != actorID {
		return model.Comment{}, model.ErrNotCommentOwner
	}
	now := s.now()
	c.Content = content
	c.UpdatedAt = &now
	c.Edited = true
	return *c, nil
}

// DeleteComment allows the comment's author or the post's owner.
func (s *Store) DeleteComment(actorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findComment(id)
	if c == nil {
		return model.ErrCommentNotFound
	}
	postOwner := ""
	if p := s.findPost(c.PostID); p != nil {
		postOwner = p.User.ID
	}
	if c.User.ID != actorID && postOwner != actorID {
		return model.ErrCannotDeleteComment
	}
	s.comments = filter(s.comments, func(c *model.Comment) bool { return c.ID != id })
	return nil
}

// =============================================================================
// Learning plans
// =============================================================================

func (s *Store) findPlan(id string) *model.LearningPlan {
	for _, p := range s.plans {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) PublicPlans() model.Page[model.LearningPlan] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content := []model.LearningPlan{}
	for i := len(s.plans) - 1; i >= 0; i-- {
		if s.plans[i].IsPublic {
			content = append(content, *s.plans[i])
		}
	}
	return model.Page[model.LearningPlan]{
		Content:       content,
		TotalElements: len(content),
		TotalPages:    1,
		Number:        0,
		Size:          len(content),
	}
}

func (s *Store) Plan(id string) (model.LearningPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.findPlan(id); p != nil {
		return *p, nil
	}
	return model.LearningPlan{}, model.ErrPlanNotFound
}

func (s *Store) PlansByUser(userID string) []model.LearningPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.LearningPlan{}
	for i := len(s.plans) - 1; i >= 0; i-- {
		if s.plans[i].User.ID == userID {
			out = append(out, *s.plans[i])
		}
	}
	return out
}

func (s *Store) CreatePlan(actorID string, req model.PlanRequest) (model.LearningPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.LearningPlan{
		ID:        newID(),
		User:      s.summary(actorID),
		CreatedAt: s.now(),
	}
	applyPlan(p, req)
	s.plans = append(s.plans, p)
	return *p, nil
}

func (s *Store) UpdatePlan(actorID, id string, req model.PlanRequest) (model.LearningPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPlan(id)
	if p == nil {
		return model.LearningPlan{}, model.ErrPlanNotFound
	}
	if p.User.ID != actorID {
		return model.LearningPlan{}, model.ErrNotPlanOwner
	}
	applyPlan(p, req)
	return *p, nil
}

func applyPlan(p *model.LearningPlan, req model.PlanRequest) {
	p.Title = strings.TrimSpace(req.Title)
	p.Description = req.Description
	p.Category = req.Category
	p.SkillLevel = req.SkillLevel
	p.Tags = append([]string(nil), req.Tags...)
	p.EstimatedHours = req.EstimatedHours
	p.IsPublic = req.IsPublic

	units := make([]model.LearningUnit, len(req.LearningUnits))
	done := 0
	for i, u := range req.LearningUnits {
		if u.UnitID == "" {
			u.UnitID = newID()
		}
		if u.Completed {
			done++
		}
		units[i] = u
	}
	p.LearningUnits = units
	p.CompletionPercentage = 0
	if len(units) > 0 {
		p.CompletionPercentage = float64(done) * 100 / float64(len(units))
	}
}

func (s *Store) DeletePlan(actorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPlan(id)
	if p == nil {
		return model.ErrPlanNotFound
	}
	if p.User.ID != actorID {
		return model.ErrNotPlanOwner
	}
	s.plans = filter(s.plans, func(p *model.LearningPlan) bool { return p.ID != id })
	delete(s.planLikes, id)
	return nil
}

// LikePlan toggles the actor's like on a plan.
func (s *Store) LikePlan(actorID, id string) (model.LearningPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findPlan(id)
	if p == nil {
		return model.LearningPlan{}, model.ErrPlanNotFound
	}
	likers := s.planLikes[id]
	if likers == nil {
		likers = make(map[string]bool)
		s.planLikes[id] = likers
	}
	if likers[actorID] {
		delete(likers, actorID)
	} else {
		likers[actorID] = true
	}
	p.LikesCount = len(likers)
	return *p, nil
}

// =============================================================================
// Progress updates
// =============================================================================

func (s *Store) findProgress(id string) *model.ProgressUpdate {
	for _, p := range s.progress {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// ProgressList returns public updates, newest first.
func (s *Store) ProgressList() []model.ProgressUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.ProgressUpdate{}
	for i := len(s.progress) - 1; i >= 0; i-- {
		if s.progress[i].IsPublic {
			out = append(out, *s.progress[i])
		}
	}
	return out
}

// ProgressByUser includes private updates only when the viewer is the owner.
func (s *Store) ProgressByUser(viewerID, userID string) []model.ProgressUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []model.ProgressUpdate{}
	for i := len(s.progress) - 1; i >= 0; i-- {
		p := s.progress[i]
		if p.User.ID == userID && (p.IsPublic || viewerID == userID) {
			out = append(out, *p)
		}
	}
	return out
}

func (s *Store) Progress(id string) (model.ProgressUpdate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p := s.findProgress(id); p != nil {
		return *p, nil
	}
	return model.ProgressUpdate{}, model.ErrProgressNotFound
}

func (s *Store) CreateProgress(actorID string, req model.ProgressRequest) (model.ProgressUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &model.ProgressUpdate{
		ID:        newID(),
		User:      s.summary(actorID),
		CreatedAt: s.now(),
	}
	applyProgress(p, req)
	s.progress = append(s.progress, p)
	return *p, nil
}

func (s *Store) UpdateProgress(actorID, id string, req model.ProgressRequest) (model.ProgressUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProgress(id)
	if p == nil {
		return model.ProgressUpdate{}, model.ErrProgressNotFound
	}
	if p.User.ID != actorID {
		return model.ProgressUpdate{}, model.ErrNotProgressOwner
	}
	applyProgress(p, req)
	return *p, nil
}

func applyProgress(p *model.ProgressUpdate, req model.ProgressRequest) {
	p.Title = strings.TrimSpace(req.Title)
	p.Content = req.Content
	p.IsPublic = req.IsPublic
	p.HoursSpent = req.HoursSpent
	p.Type = req.Type
	p.Rating = req.Rating
	p.Sentiment = req.Sentiment
	p.Challenges = append([]string(nil), req.Challenges...)
	p.Achievements = append([]string(nil), req.Achievements...)
	p.RelatedPlanID = req.RelatedPlanID
	p.LearningUnitID = req.LearningUnitID
}

func (s *Store) DeleteProgress(actorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.findProgress(id)
	if p == nil {
		return model.ErrProgressNotFound
	}
	if p.User.ID != actorID {
		return model.ErrNotProgressOwner
	}
	s.progress = filter(s.progress, func(p *model.ProgressUpdate) bool { return p.ID != id })
	return nil
}

// =============================================================================
// Chat
// =============================================================================

func (s *Store) conversationBetween(a, b string) *model.Conversation {
	for _, c := range s.conversations {
		if c.Includes(a) && c.Includes(b) {
			return c
		}
	}
	return nil
}

func (s *Store) ConversationBetween(a, b string) (model.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if c := s.conversationBetween(a, b); c != nil {
		return *c, nil
	}
	return model.Conversation{}, model.ErrConversationNotFound
}

// CreateConversation returns the existing conversation if there is one.
func (s *Store) CreateConversation(actorID, a, b string) (model.Conversation, error) {
	if actorID != a && actorID != b {
		return model.Conversation{}, model.ErrNotParticipant
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accountByID(a) == nil || s.accountByID(b) == nil {
		return model.Conversation{}, model.ErrUserNotFound
	}
	if c := s.conversationBetween(a, b); c != nil {
		return *c, nil
	}
	c := &model.Conversation{ID: newID(), ParticipantIDs: []string{a, b}, CreatedAt: s.now()}
	s.conversations = append(s.conversations, c)
	return *c, nil
}

func (s *Store) findConversation(id string) *model.Conversation {
	for _, c := range s.conversations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// Messages returns a conversation's messages, oldest first.
func (s *Store) Messages(actorID, conversationID string) ([]model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.findConversation(conversationID)
	if c == nil {
		return nil, model.ErrConversationNotFound
	}
	if !c.Includes(actorID) {
		return nil, model.ErrNotParticipant
	}
	out := []model.Message{}
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SentAt.Before(out[j].SentAt) })
	return out, nil
}

func (s *Store) SendMessage(actorID string, req model.SendMessageRequest) (model.Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return model.Message{}, model.ErrContentRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.findConversation(req.ConversationID)
	if c == nil {
		return model.Message{}, model.ErrConversationNotFound
	}
	if !c.Includes(actorID) {
		return model.Message{}, model.ErrNotParticipant
	}
	m := &model.Message{
		ID:             newID(),
		ConversationID: c.ID,
		Sender:         s.summary(actorID),
		ReceiverID:     req.ReceiverID,
		Content:        content,
		SentAt:         s.now(),
	}
	s.messages = append(s.messages, m)
	return *m, nil
}

func (s *Store) findMessage(id string) *model.Message {
	for _, m := range s.messages {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Store) UpdateMessage(actorID, id, content string) (model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Message{}, model.ErrContentRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMessage(id)
	if m == nil {
		return model.Message{}, model.ErrMessageNotFound
	}
	if m.Sender.ID != actorID {
		return model.Message{}, model.ErrNotMessageSender
	}
	m.Content = content
	m.Edited = true
	return *m, nil
}

func (s *Store) DeleteMessage(actorID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findMessage(id)
	if m == nil {
		return model.ErrMessageNotFound
	}
	if m.Sender.ID != actorID {
		return model.ErrNotMessageSender
	}
	s.messages = filter(s.messages, func(m *model.Message) bool { return m.ID != id })
	return nil
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
