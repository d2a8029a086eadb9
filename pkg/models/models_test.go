package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
		Role:     RoleUser,
		IsActive: true,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:       existingID,
		Email:    "test@example.com",
		Username: "testuser",
		Password: "password",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, user.ID)
}

func TestUserRole_Constants(t *testing.T) {
	assert.Equal(t, UserRole("user"), RoleUser)
	assert.Equal(t, UserRole("admin"), RoleAdmin)
	assert.Equal(t, UserRole("super_admin"), RoleSuperAdmin)
}

func TestUserRole_Predicates(t *testing.T) {
	assert.False(t, RoleUser.IsAdmin())
	assert.True(t, RoleAdmin.IsAdmin())
	assert.True(t, RoleSuperAdmin.IsAdmin())

	assert.False(t, RoleUser.IsSuperAdmin())
	assert.False(t, RoleAdmin.IsSuperAdmin())
	assert.True(t, RoleSuperAdmin.IsSuperAdmin())
}

func TestPost_BeforeCreate(t *testing.T) {
	post := &Post{
		AuthorID: "author-123",
		Title:    "Test Post",
	}

	err := post.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, post.ID)
}

func TestLike_BeforeCreate(t *testing.T) {
	like := &Like{
		UserID: "user-123",
		PostID: "post-123",
		Value:  1,
	}

	err := like.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, like.ID)
}

func TestFollow_BeforeCreate(t *testing.T) {
	follow := &Follow{
		FollowerID:  "follower-123",
		FollowingID: "following-123",
	}

	err := follow.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, follow.ID)
}

func TestProjectCategory_Constants(t *testing.T) {
	assert.Equal(t, ProjectCategory("free"), CategoryFree)
	assert.Equal(t, ProjectCategory("paid"), CategoryPaid)
	assert.Equal(t, ProjectCategory("premium"), CategoryPremium)
}

func TestProject_BeforeCreate(t *testing.T) {
	project := &Project{
		OwnerID:  "owner-123",
		Title:    "Test Project",
		Category: CategoryPaid,
		Price:    100,
	}

	err := project.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, project.ID)
}

func TestPurchase_BeforeCreate(t *testing.T) {
	purchase := &Purchase{
		UserID:    "user-123",
		ProjectID: "project-123",
	}

	err := purchase.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, purchase.ID)
}

func TestPasswordResetToken_Expired(t *testing.T) {
	live := &PasswordResetToken{Expires: time.Now().Add(ResetTokenTTL)}
	assert.False(t, live.Expired())

	stale := &PasswordResetToken{Expires: time.Now().Add(-time.Minute)}
	assert.True(t, stale.Expired())
}

func TestTransactionType_Constants(t *testing.T) {
	assert.Equal(t, TransactionType("topup"), TransactionTypeTopUp)
	assert.Equal(t, TransactionType("purchase"), TransactionTypePurchase)
	assert.Equal(t, TransactionType("refund"), TransactionTypeRefund)
}

func TestTransaction_BeforeCreate(t *testing.T) {
	transaction := &Transaction{
		UserID: "user-123",
		Type:   TransactionTypeTopUp,
		Amount: 100,
	}

	err := transaction.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, transaction.ID)
}

func TestNotification_BeforeCreate(t *testing.T) {
	notification := &Notification{
		UserID:  "user-123",
		Type:    NotificationTypeFollow,
		ActorID: "actor-123",
	}

	err := notification.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, notification.ID)
}
