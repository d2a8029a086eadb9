package repository

import (
	"errors"

	"makerhub/pkg/models"

	"gorm.io/gorm"
)

// ErrInsufficientFunds is returned when a debit would push the balance
// below zero. The balance invariant is enforced in SQL, not in Go.
var ErrInsufficientFunds = errors.New("wallet: insufficient funds")

// ErrAlreadyPurchased is returned when the user already owns the project.
var ErrAlreadyPurchased = errors.New("wallet: project already purchased")

type WalletRepository interface {
	GetUser(userID string) (*models.User, error)
	// Credit adds coins unconditionally.
	Credit(userID string, amount int) error
	// PurchaseProject debits the buyer and records the purchase and the
	// transaction in one database transaction. The conditional UPDATE is
	// the only guard against concurrent overspend.
	PurchaseProject(userID string, project *models.Project) (*models.Transaction, error)
	GetProject(projectID string) (*models.Project, error)
	HasPurchase(userID, projectID string) (bool, error)
	CreateTransaction(tx *models.Transaction) error
	GetTransactions(userID string, limit, offset int) ([]*models.Transaction, error)
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

func (r *walletRepository) GetUser(userID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *walletRepository) Credit(userID string, amount int) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("coin", gorm.Expr("coin + ?", amount)).Error
}

func (r *walletRepository) GetProject(projectID string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ?", projectID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *walletRepository) HasPurchase(userID, projectID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *walletRepository) PurchaseProject(userID string, project *models.Project) (*models.Transaction, error) {
	var txn *models.Transaction

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var buyer models.User
		if err := tx.Where("id = ?", userID).First(&buyer).Error; err != nil {
			return err
		}

		// Debit only if the balance covers the price. RowsAffected tells
		// us whether the guard held, so the balance can never go negative
		// even under concurrent purchases.
		res := tx.Model(&models.User{}).
			Where("id = ? AND coin >= ?", userID, project.Price).
			UpdateColumn("coin", gorm.Expr("coin - ?", project.Price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientFunds
		}

		purchase := &models.Purchase{UserID: userID, ProjectID: project.ID}
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}

		txn = &models.Transaction{
			UserID:        userID,
			ProjectID:     project.ID,
			Type:          models.TransactionTypePurchase,
			Amount:        -project.Price,
			BalanceBefore: buyer.Coin,
			BalanceAfter:  buyer.Coin - project.Price,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *walletRepository) CreateTransaction(txn *models.Transaction) error {
	return r.db.Create(txn).Error
}

func (r *walletRepository) GetTransactions(userID string, limit, offset int) ([]*models.Transaction, error) {
	var txns []*models.Transaction
	query := r.db.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
