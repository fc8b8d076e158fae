package feedback

import (
	"context"
	"errors"
	"time"

	"restaurant-order-services/internal/apperror"
	"restaurant-order-services/internal/models"
	"restaurant-order-services/internal/store"
)

const RecentLimit = 10

type Service struct {
	Store store.Store
	Now   func() time.Time
}

func NewService(s store.Store) *Service {
	return &Service{Store: s, Now: func() time.Time { return time.Now().UTC() }}
}

type SubmitInput struct {
	OrderID        int64   `json:"orderId"`
	UserID         *int64  `json:"-"`
	Rating         int32   `json:"rating"`
	Comment        *string `json:"comment"`
	FoodQuality    *int32  `json:"foodQuality"`
	ServiceQuality *int32  `json:"serviceQuality"`
	Ambience       *int32  `json:"ambience"`
	Cleanliness    *int32  `json:"cleanliness"`
	IsAnonymous    bool    `json:"isAnonymous"`
}

func (in SubmitInput) validate() error {
	if in.OrderID <= 0 {
		return apperror.Validation("orderId is required")
	}
	if !inRange(in.Rating) {
		return apperror.Validation("Rating must be between 1 and 5")
	}
	for name, v := range map[string]*int32{
		"foodQuality":    in.FoodQuality,
		"serviceQuality": in.ServiceQuality,
		"ambience":       in.Ambience,
		"cleanliness":    in.Cleanliness,
	} {
		if v != nil && !inRange(*v) {
			return apperror.Validation(name + " must be between 1 and 5")
		}
	}
	return nil
}

func inRange(v int32) bool { return v >= 1 && v <= 5 }

type Summary struct {
	AverageRating         float64        `json:"averageRating"`
	TotalFeedbacks        int            `json:"totalFeedbacks"`
	RatingDistribution    map[int32]int  `json:"ratingDistribution"`
	AverageFoodQuality    *float64       `json:"averageFoodQuality"`
	AverageServiceQuality *float64       `json:"averageServiceQuality"`
	AverageAmbience       *float64       `json:"averageAmbience"`
	AverageCleanliness    *float64       `json:"averageCleanliness"`
	SentimentCounts       map[string]int `json:"sentimentCounts"`
}

func (s *Service) Submit(ctx context.Context, in SubmitInput) (models.Feedback, error) {
	if err := in.validate(); err != nil {
		return models.Feedback{}, err
	}
	if in.IsAnonymous {
		in.UserID = nil
	}
	fb, err := s.Store.InsertFeedback(ctx, models.Feedback{
		OrderID:        in.OrderID,
		UserID:         in.UserID,
		Rating:         in.Rating,
		Comment:        in.Comment,
		FoodQuality:    in.FoodQuality,
		ServiceQuality: in.ServiceQuality,
		Ambience:       in.Ambience,
		Cleanliness:    in.Cleanliness,
		IsAnonymous:    in.IsAnonymous,
		CreatedAt:      s.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrReferenced) {
			return models.Feedback{}, apperror.NotFound("Order not found")
		}
		return models.Feedback{}, apperror.Unexpected(err)
	}
	return annotate(fb), nil
}

// ByOrder returns the most recent feedback left for an order.
func (s *Service) ByOrder(ctx context.Context, orderID int64) (models.Feedback, error) {
	list, err := s.Store.ListFeedback(ctx, &orderID, 1)
	if err != nil {
		return models.Feedback{}, apperror.Unexpected(err)
	}
	if len(list) == 0 {
		return models.Feedback{}, apperror.NotFound("Feedback not found")
	}
	return annotate(list[0]), nil
}

func (s *Service) Recent(ctx context.Context, limit int) ([]models.Feedback, error) {
	if limit <= 0 {
		limit = RecentLimit
	}
	list, err := s.Store.ListFeedback(ctx, nil, limit)
	if err != nil {
		return nil, apperror.Unexpected(err)
	}
	for i := range list {
		list[i] = annotate(list[i])
	}
	return list, nil
}

func (s *Service) Summary(ctx context.Context) (Summary, error) {
	list, err := s.Store.ListFeedback(ctx, nil, 0)
	if err != nil {
		return Summary{}, apperror.Unexpected(err)
	}
	return Summarize(list), nil
}

// Summarize averages ratings. Sub-rating averages stay nil when no feedback
// carried that score.
func Summarize(list []models.Feedback) Summary {
	out := Summary{
		RatingDistribution: map[int32]int{},
		SentimentCounts:    map[string]int{},
		TotalFeedbacks:     len(list),
	}
	if len(list) == 0 {
		return out
	}

	var food, service, ambience, cleanliness averager
	total := 0
	for _, fb := range list {
		total += int(fb.Rating)
		out.RatingDistribution[fb.Rating]++
		out.SentimentCounts[Sentiment(commentOf(fb), fb.Rating)]++
		food.add(fb.FoodQuality)
		service.add(fb.ServiceQuality)
		ambience.add(fb.Ambience)
		cleanliness.add(fb.Cleanliness)
	}
	out.AverageRating = float64(total) / float64(len(list))
	out.AverageFoodQuality = food.value()
	out.AverageServiceQuality = service.value()
	out.AverageAmbience = ambience.value()
	out.AverageCleanliness = cleanliness.value()
	return out
}

type averager struct {
	sum   int
	count int
}

func (a *averager) add(v *int32) {
	if v == nil {
		return
	}
	a.sum += int(*v)
	a.count++
}

func (a averager) value() *float64 {
	if a.count == 0 {
		return nil
	}
	avg := float64(a.sum) / float64(a.count)
	return &avg
}

func annotate(fb models.Feedback) models.Feedback {
	comment := commentOf(fb)
	fb.Sentiment = Sentiment(comment, fb.Rating)
	fb.Tags = Tags(comment)
	return fb
}

func commentOf(fb models.Feedback) string {
	if fb.Comment == nil {
		return ""
	}
	return *fb.Comment
}
