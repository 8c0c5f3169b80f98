package polls

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormStore struct {
	db *gorm.DB
}

// NewGormStore migrates the poll tables and returns a store backed by db.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	err := db.AutoMigrate(&Poll{}, &Option{}, &Vote{})
	if err != nil {
		return nil, storageError(err)
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Get(ctx context.Context, pollId string) (*Poll, error) {
	poll := &Poll{}
	err := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Votes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Where("id = ?", pollId).
		First(poll).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storageError(err)
	}
	return poll, nil
}

// Save upserts the poll row and brings its options and votes in line with the aggregate.
// Options are only ever inserted; votes missing from the aggregate are deleted.
func (s *GormStore) Save(ctx context.Context, poll *Poll) (*Poll, error) {
	saved := poll.Clone()
	for k := range saved.Options {
		saved.Options[k].PollId = saved.Id
	}
	for k := range saved.Votes {
		saved.Votes[k].PollId = saved.Id
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{UpdateAll: true}).
			Create(saved).Error
		if err != nil {
			return err
		}

		if len(saved.Options) > 0 {
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved.Options).Error
			if err != nil {
				return err
			}
		}

		keep := make([]string, 0, len(saved.Votes))
		for _, v := range saved.Votes {
			keep = append(keep, v.Id)
		}
		stale := tx.Where("poll_id = ?", saved.Id)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err = stale.Delete(&Vote{}).Error; err != nil {
			return err
		}

		if len(saved.Votes) > 0 {
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&saved.Votes).Error
		}
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}
	return saved.Clone(), nil
}

func (s *GormStore) Delete(ctx context.Context, pollId string) (bool, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poll_id = ?", pollId).Delete(&Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id = ?", pollId).Delete(&Option{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", pollId).Delete(&Poll{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, storageError(err)
	}
	return deleted > 0, nil
}

func (s *GormStore) ListExpiredOpen(ctx context.Context, now time.Time) ([]*Poll, error) {
	var polls []*Poll
	err := s.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Votes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Where("closed = ? AND deadline IS NOT NULL AND deadline < ?", false, now).
		Order("deadline").
		Find(&polls).Error
	if err != nil {
		return nil, storageError(err)
	}
	return polls, nil
}

func storageError(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
