package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"characterhub-be/internal/apperr"
	"characterhub-be/internal/dto"
	"characterhub-be/internal/model"
	"characterhub-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// In-memory SQLite gives every connection its own database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.UserProvider{}, &model.Character{}))

	return db
}

type fakeUploader struct {
	mu       sync.Mutex
	uploaded []string
	failWith error
}

func (f *fakeUploader) Upload(_ context.Context, filename string, _ []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return "", f.failWith
	}
	f.uploaded = append(f.uploaded, filename)
	return "https://media.test/" + filename, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (f *fakePublisher) Publish(_ context.Context, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, payload)
	return nil
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

func newTestCharacterService(db *gorm.DB, uploader IUploadService, publisher IPublisherService) ICharacterService {
	return NewCharacterService(unitofwork.NewRepositoryFactory(db), uploader, publisher, nil)
}

func seedUser(t *testing.T, db *gorm.DB, name string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, db.Create(&model.User{
		Id:       id,
		Email:    fmt.Sprintf("%s-%s@example.com", name, id.String()[:8]),
		FullName: name,
		Role:     "user",
		Status:   "active",
	}).Error)
	return id
}

func minimalCreateRequest() *dto.CreateCharacterRequest {
	return &dto.CreateCharacterRequest{
		Name:        "Aria",
		Tagline:     "A wandering bard",
		Description: "Sings tales of old",
		Greeting:    "Well met, traveler!",
	}
}

func TestCreateCharacter_AppliesDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	userId := seedUser(t, db, "Owner")

	res, err := svc.Create(context.Background(), userId, minimalCreateRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.Id)
	assert.Equal(t, userId, res.UserId)
	assert.Equal(t, "public", res.Visibility)
	assert.Equal(t, 1.0, res.Temperature)
	assert.Equal(t, 1.0, res.TopP)
	assert.Equal(t, 0, res.TopK)
	assert.Equal(t, 0.0, res.FrequencyPenalty)
	assert.Equal(t, 0.0, res.PresencePenalty)
	assert.Equal(t, 1.0, res.RepetitionPenalty)
	assert.Equal(t, 0.0, res.MinP)
	assert.Equal(t, 0.0, res.TopA)
	assert.Equal(t, 600, res.MaxTokens)
	assert.Equal(t, []string{}, res.Tags)
	assert.Equal(t, 0, res.InteractionCount)
	assert.Equal(t, 0, res.LikeCount)
}

func TestCreateCharacter_Unauthorized(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})

	_, err := svc.Create(context.Background(), uuid.Nil, minimalCreateRequest())
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestCreateCharacter_ValidationBounds(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	userId := seedUser(t, db, "Owner")

	tooHot := 3.0
	req := minimalCreateRequest()
	req.Temperature = &tooHot

	_, err := svc.Create(context.Background(), userId, req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	req = minimalCreateRequest()
	req.Name = ""
	_, err = svc.Create(context.Background(), userId, req)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCreateCharacter_TagParsing(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	userId := seedUser(t, db, "Owner")

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"valid tags round-trip", `["fantasy","sci-fi"]`, []string{"fantasy", "sci-fi"}},
		{"unknown tag degrades whole list", `["fantasy","dragons"]`, []string{}},
		{"malformed json degrades", `["fantasy"`, []string{}},
		{"empty input", ``, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := minimalCreateRequest()
			req.Tags = tt.raw

			res, err := svc.Create(context.Background(), userId, req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Tags)
		})
	}
}

func TestCreateCharacter_UploadFailureAborts(t *testing.T) {
	db := setupTestDB(t)
	uploader := &fakeUploader{failWith: errors.New("storage down")}
	svc := newTestCharacterService(db, uploader, &fakePublisher{})
	userId := seedUser(t, db, "Owner")

	req := minimalCreateRequest()
	req.Avatar = &dto.FilePayload{Filename: "avatar.png", Data: []byte("png")}

	_, err := svc.Create(context.Background(), userId, req)
	assert.True(t, apperr.IsKind(err, apperr.KindUpload))

	var count int64
	require.NoError(t, db.Model(&model.Character{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateCharacter_PartialSemantics(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	userId := seedUser(t, db, "Owner")

	req := minimalCreateRequest()
	req.Tags = `["fantasy"]`
	created, err := svc.Create(context.Background(), userId, req)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	newTagline := "A retired bard"
	updated, err := svc.Update(context.Background(), userId, &dto.UpdateCharacterRequest{
		Id:      created.Id,
		Tagline: &newTagline,
	})
	require.NoError(t, err)

	// Only the tagline changed; everything else kept its stored value.
	assert.Equal(t, "A retired bard", updated.Tagline)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Description, updated.Description)
	assert.Equal(t, created.Greeting, updated.Greeting)
	assert.Equal(t, []string{"fantasy"}, updated.Tags)
	assert.Equal(t, created.Temperature, updated.Temperature)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateCharacter_ForbiddenForNonOwner(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	owner := seedUser(t, db, "Owner")
	intruder := seedUser(t, db, "Intruder")

	created, err := svc.Create(context.Background(), owner, minimalCreateRequest())
	require.NoError(t, err)

	newName := "Stolen"
	_, err = svc.Update(context.Background(), intruder, &dto.UpdateCharacterRequest{
		Id:   created.Id,
		Name: &newName,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	// Row must be untouched.
	var m model.Character
	require.NoError(t, db.First(&m, "id = ?", created.Id).Error)
	assert.Equal(t, "Aria", m.Name)
}

func TestUpdateCharacter_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	userId := seedUser(t, db, "Owner")

	newName := "Ghost"
	_, err := svc.Update(context.Background(), userId, &dto.UpdateCharacterRequest{
		Id:   uuid.New(),
		Name: &newName,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestUpdateCharacter_ReplacedImagePublishesOrphan(t *testing.T) {
	db := setupTestDB(t)
	publisher := &fakePublisher{}
	svc := newTestCharacterService(db, &fakeUploader{}, publisher)
	userId := seedUser(t, db, "Owner")

	req := minimalCreateRequest()
	req.Avatar = &dto.FilePayload{Filename: "old.png", Data: []byte("png")}
	created, err := svc.Create(context.Background(), userId, req)
	require.NoError(t, err)
	require.NotNil(t, created.AvatarImageURL)

	updated, err := svc.Update(context.Background(), userId, &dto.UpdateCharacterRequest{
		Id:     created.Id,
		Avatar: &dto.FilePayload{Filename: "new.png", Data: []byte("png2")},
	})
	require.NoError(t, err)

	assert.NotEqual(t, *created.AvatarImageURL, *updated.AvatarImageURL)
	assert.Equal(t, 1, publisher.count())
}

func TestDeleteCharacter(t *testing.T) {
	db := setupTestDB(t)
	publisher := &fakePublisher{}
	svc := newTestCharacterService(db, &fakeUploader{}, publisher)
	userId := seedUser(t, db, "Owner")
	other := seedUser(t, db, "Other")

	req := minimalCreateRequest()
	req.Avatar = &dto.FilePayload{Filename: "avatar.png", Data: []byte("png")}
	created, err := svc.Create(context.Background(), userId, req)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), other, created.Id)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))

	require.NoError(t, svc.Delete(context.Background(), userId, created.Id))

	var count int64
	require.NoError(t, db.Model(&model.Character{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// The stored avatar became an orphan and was handed to cleanup.
	assert.Equal(t, 1, publisher.count())

	err = svc.Delete(context.Background(), userId, created.Id)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}

func TestSearch_VisibilityRules(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	owner := seedUser(t, db, "Owner")
	stranger := seedUser(t, db, "Stranger")

	pub := minimalCreateRequest()
	pub.Name = "Public Aria"
	_, err := svc.Create(context.Background(), owner, pub)
	require.NoError(t, err)

	priv := minimalCreateRequest()
	priv.Name = "Private Aria"
	priv.Visibility = "private"
	_, err = svc.Create(context.Background(), owner, priv)
	require.NoError(t, err)

	t.Run("anonymous sees public only", func(t *testing.T) {
		res, err := svc.Search(context.Background(), nil, "aria", 0)
		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "Public Aria", res[0].Name)
	})

	t.Run("owner sees own private", func(t *testing.T) {
		res, err := svc.Search(context.Background(), &owner, "aria", 0)
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("stranger does not see others private", func(t *testing.T) {
		res, err := svc.Search(context.Background(), &stranger, "aria", 0)
		require.NoError(t, err)
		assert.Len(t, res, 1)
	})
}

func TestSearch_OrderingAndLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	owner := seedUser(t, db, "Owner")

	for i := 0; i < 20; i++ {
		require.NoError(t, db.Create(&model.Character{
			Id:          uuid.New(),
			UserId:      owner,
			Name:        fmt.Sprintf("Hero %02d", i),
			Tagline:     "hero",
			Description: "d",
			Greeting:    "g",
			Visibility:  "public",
			Tags:        "[]",
			// Same interaction count in pairs so ties fall back to likes.
			InteractionCount: i / 2,
			LikeCount:        i % 2,
		}).Error)
	}

	res, err := svc.Search(context.Background(), nil, "hero", 5)
	require.NoError(t, err)
	require.Len(t, res, 5)

	for i := 1; i < len(res); i++ {
		prev, cur := res[i-1], res[i]
		if prev.InteractionCount == cur.InteractionCount {
			assert.GreaterOrEqual(t, prev.LikeCount, cur.LikeCount)
		} else {
			assert.Greater(t, prev.InteractionCount, cur.InteractionCount)
		}
	}
	assert.Equal(t, 9, res[0].InteractionCount)
	assert.Equal(t, 1, res[0].LikeCount)
}

func TestSearch_MatchesTagSubstring(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	owner := seedUser(t, db, "Owner")

	req := minimalCreateRequest()
	req.Name = "Robot"
	req.Tagline = "beep"
	req.Tags = `["sci-fi"]`
	_, err := svc.Create(context.Background(), owner, req)
	require.NoError(t, err)

	res, err := svc.Search(context.Background(), nil, "sci-fi", 0)
	require.NoError(t, err)
	assert.Len(t, res, 1)
	assert.Equal(t, "Robot", res[0].Name)
}

func TestSearchByTags(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestCharacterService(db, &fakeUploader{}, &fakePublisher{})
	alice := seedUser(t, db, "Alice")
	bob := seedUser(t, db, "Bob")

	seed := func(userId uuid.UUID, name, tags, visibility string, interactions int) {
		require.NoError(t, db.Create(&model.Character{
			Id:               uuid.New(),
			UserId:           userId,
			Name:             name,
			Tagline:          "t",
			Description:      "d",
			Greeting:         "g",
			Visibility:       visibility,
			Tags:             tags,
			InteractionCount: interactions,
		}).Error)
	}

	seed(alice, "Dragon Knight", `["fantasy","adventure"]`, "public", 10)
	seed(bob, "Star Pilot", `["sci-fi"]`, "public", 50)
	seed(alice, "Hidden Mage", `["fantasy"]`, "private", 99)

	t.Run("filters by tag, public only, ordered by interactions", func(t *testing.T) {
		res, err := svc.SearchByTags(context.Background(), []string{"fantasy", "sci-fi"}, 0)
		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Equal(t, "Star Pilot", res[0].Name)
		assert.Equal(t, "Dragon Knight", res[1].Name)
	})

	t.Run("joins owner display name", func(t *testing.T) {
		res, err := svc.SearchByTags(context.Background(), []string{"sci-fi"}, 0)
		require.NoError(t, err)
		require.Len(t, res, 1)
		require.NotNil(t, res[0].UserName)
		assert.Equal(t, "Bob", *res[0].UserName)
		assert.Equal(t, []string{"sci-fi"}, res[0].Tags)
	})

	t.Run("empty tag list returns all public", func(t *testing.T) {
		res, err := svc.SearchByTags(context.Background(), nil, 0)
		require.NoError(t, err)
		assert.Len(t, res, 2)
	})

	t.Run("respects limit", func(t *testing.T) {
		res, err := svc.SearchByTags(context.Background(), nil, 1)
		require.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "Star Pilot", res[0].Name)
	})
}
