// Package services содержит бизнес-логику склада: проверку прав, разбор и валидацию
// полей товара, кеширование карточек и уведомления о малом остатке.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/sweet-shop/internal/lib/numeric"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/sl"
	"github.com/magabrotheeeer/sweet-shop/internal/lib/validate"
	"github.com/magabrotheeeer/sweet-shop/internal/metrics"
	"github.com/magabrotheeeer/sweet-shop/internal/models"
	authservice "github.com/magabrotheeeer/sweet-shop/internal/services/auth"
	"github.com/magabrotheeeer/sweet-shop/internal/storage"
)

// SweetRepository определяет методы для работы со складом в хранилище.
type SweetRepository interface {
	// GetSweet возвращает позицию или storage.ErrNotFound.
	GetSweet(ctx context.Context, id int64) (*models.Sweet, error)
	// ListSweets возвращает позиции по фильтру в порядке имени и ID.
	ListSweets(ctx context.Context, filter models.SweetFilter) ([]*models.Sweet, error)
	CreateSweet(ctx context.Context, fields models.SweetFields) (*models.Sweet, error)
	UpdateSweet(ctx context.Context, id int64, fields models.SweetFields) (*models.Sweet, error)
	DeleteSweet(ctx context.Context, id int64) (*models.Sweet, error)
	// AdjustQuantity атомарно прибавляет delta к остатку; отказ даёт storage.ErrInsufficient.
	AdjustQuantity(ctx context.Context, id int64, delta int) (*models.Sweet, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(ctx context.Context, key string, result any) (bool, error)
	// Generation возвращает версию ключа, которую увеличивает Invalidate.
	Generation(ctx context.Context, key string) (int64, error)
	// SetIfGeneration сохраняет значение, только если версия ключа всё ещё gen.
	SetIfGeneration(ctx context.Context, key string, gen int64, value any, expiration time.Duration) (bool, error)
	// Invalidate удаляет значение из кеша и увеличивает версию ключа.
	Invalidate(ctx context.Context, key string) error
}

// StockNotifier доставляет события о малом остатке.
type StockNotifier interface {
	NotifyLowStock(ctx context.Context, event models.LowStockEvent) error
}

// Options настройки сервиса склада.
type Options struct {
	CacheTTL          time.Duration
	LowStockThreshold int
}

// InventoryService реализует операции склада.
type InventoryService struct {
	repo     SweetRepository
	cache    Cache
	notifier StockNotifier
	validate *validate.Validator
	log      *slog.Logger
	opts     Options
	now      func() time.Time
}

// NewInventoryService создает новый экземпляр InventoryService.
func NewInventoryService(repo SweetRepository, cache Cache, notifier StockNotifier, log *slog.Logger, opts Options) *InventoryService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Minute
	}
	return &InventoryService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		validate: validate.New(),
		log:      log,
		opts:     opts,
		now:      time.Now,
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("sweet:%d", id)
}

// authorize пропускает вызывающего с ролью не ниже required.
func authorize(claim models.Claim, required models.Role) error {
	if claim.IsZero() {
		return models.ErrMissingToken
	}
	return authservice.Authorize(claim, required).Err()
}

// List возвращает весь склад.
func (s *InventoryService) List(ctx context.Context, claim models.Claim) ([]*models.Sweet, error) {
	const op = "services.inventory.List"
	sweets, err := s.list(ctx, claim, models.SweetFilter{})
	s.record("list", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sweets, nil
}

// Search фильтрует склад по подстроке имени и категории и по диапазону цены.
// Пустые параметры не ограничивают выборку.
func (s *InventoryService) Search(ctx context.Context, claim models.Claim, params models.SearchParams) ([]*models.Sweet, error) {
	const op = "services.inventory.Search"
	sweets, err := s.search(ctx, claim, params)
	s.record("search", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sweets, nil
}

func (s *InventoryService) search(ctx context.Context, claim models.Claim, params models.SearchParams) ([]*models.Sweet, error) {
	if err := authorize(claim, models.RoleCustomer); err != nil {
		return nil, err
	}
	var filter models.SweetFilter
	if params.Name != "" {
		filter.Name = &params.Name
	}
	if params.Category != "" {
		filter.Category = &params.Category
	}
	var err error
	if filter.MinPrice, err = parseBound("minPrice", params.MinPrice); err != nil {
		return nil, err
	}
	if filter.MaxPrice, err = parseBound("maxPrice", params.MaxPrice); err != nil {
		return nil, err
	}
	return s.list(ctx, claim, filter)
}

func parseBound(field, raw string) (*numeric.Cents, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := numeric.ParseCents(raw)
	if err != nil {
		return nil, models.NewValidationError(field, err.Error())
	}
	return &v, nil
}

func (s *InventoryService) list(ctx context.Context, claim models.Claim, filter models.SweetFilter) ([]*models.Sweet, error) {
	if err := authorize(claim, models.RoleCustomer); err != nil {
		return nil, err
	}
	sweets, err := s.repo.ListSweets(ctx, filter)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sweets, nil
}

// Get возвращает позицию по ID, сначала заглядывая в кеш.
func (s *InventoryService) Get(ctx context.Context, claim models.Claim, id int64) (*models.Sweet, error) {
	const op = "services.inventory.Get"
	sw, err := s.get(ctx, claim, id)
	s.record("get", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sw, nil
}

func (s *InventoryService) get(ctx context.Context, claim models.Claim, id int64) (*models.Sweet, error) {
	if err := authorize(claim, models.RoleCustomer); err != nil {
		return nil, err
	}
	key := cacheKey(id)
	var cached models.Sweet
	found, err := s.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.CacheRequestsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	case found:
		metrics.CacheRequestsTotal.WithLabelValues(metrics.ResultHit).Inc()
		return &cached, nil
	default:
		metrics.CacheRequestsTotal.WithLabelValues(metrics.ResultMiss).Inc()
	}

	// Версия читается до хранилища: изменение, закоммиченное после чтения строки,
	// успеет её увеличить, и устаревшая запись в кеш не попадёт.
	gen, genErr := s.cache.Generation(ctx, key)
	sw, err := s.repo.GetSweet(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	if genErr != nil {
		s.log.Warn("failed to read cache generation", slog.String("key", key), sl.Err(genErr))
		return sw, nil
	}
	stored, err := s.cache.SetIfGeneration(ctx, key, gen, sw, s.opts.CacheTTL)
	switch {
	case err != nil:
		s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
	case !stored:
		s.log.Debug("stale read not cached", slog.String("key", key))
	}
	return sw, nil
}

// Create добавляет позицию. Только для администратора.
func (s *InventoryService) Create(ctx context.Context, claim models.Claim, in models.SweetInput) (*models.Sweet, error) {
	const op = "services.inventory.Create"
	sw, err := s.create(ctx, claim, in)
	s.record("create", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("sweet created", slog.Int64("id", sw.ID), slog.String("user_id", claim.UserID))
	return sw, nil
}

func (s *InventoryService) create(ctx context.Context, claim models.Claim, in models.SweetInput) (*models.Sweet, error) {
	if err := authorize(claim, models.RoleAdmin); err != nil {
		return nil, err
	}
	fields, err := s.parseFields(in)
	if err != nil {
		return nil, err
	}
	sw, err := s.repo.CreateSweet(ctx, fields)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	return sw, nil
}

// Update перезаписывает все поля позиции. Только для администратора.
func (s *InventoryService) Update(ctx context.Context, claim models.Claim, id int64, in models.SweetInput) (*models.Sweet, error) {
	const op = "services.inventory.Update"
	sw, err := s.update(ctx, claim, id, in)
	s.record("update", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("sweet updated", slog.Int64("id", id), slog.String("user_id", claim.UserID))
	return sw, nil
}

func (s *InventoryService) update(ctx context.Context, claim models.Claim, id int64, in models.SweetInput) (*models.Sweet, error) {
	if err := authorize(claim, models.RoleAdmin); err != nil {
		return nil, err
	}
	fields, err := s.parseFields(in)
	if err != nil {
		return nil, err
	}
	sw, err := s.repo.UpdateSweet(ctx, id, fields)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	s.invalidate(ctx, id)
	return sw, nil
}

// Delete удаляет позицию и возвращает удалённую запись. Только для администратора.
func (s *InventoryService) Delete(ctx context.Context, claim models.Claim, id int64) (*models.Sweet, error) {
	const op = "services.inventory.Delete"
	sw, err := s.remove(ctx, claim, id)
	s.record("delete", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("sweet deleted", slog.Int64("id", id), slog.String("user_id", claim.UserID))
	return sw, nil
}

func (s *InventoryService) remove(ctx context.Context, claim models.Claim, id int64) (*models.Sweet, error) {
	if err := authorize(claim, models.RoleAdmin); err != nil {
		return nil, err
	}
	sw, err := s.repo.DeleteSweet(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err)
	}
	s.invalidate(ctx, id)
	return sw, nil
}

// Purchase списывает quantity единиц (по умолчанию одну). Доступно любому
// аутентифицированному пользователю.
func (s *InventoryService) Purchase(ctx context.Context, claim models.Claim, id int64, quantity numeric.Loose) (*models.Sweet, error) {
	const op = "services.inventory.Purchase"
	sw, n, err := s.purchase(ctx, claim, id, quantity)
	s.record("purchase", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.StockUnitsTotal.WithLabelValues("purchased").Add(float64(n))
	s.log.Info("sweet purchased",
		slog.Int64("id", id),
		slog.Int("quantity", n),
		slog.Int("remaining", sw.Quantity),
		slog.String("user_id", claim.UserID),
	)
	s.checkLowStock(ctx, sw)
	return sw, nil
}

func (s *InventoryService) purchase(ctx context.Context, claim models.Claim, id int64, quantity numeric.Loose) (*models.Sweet, int, error) {
	if err := authorize(claim, models.RoleCustomer); err != nil {
		return nil, 0, err
	}
	n := 1
	if quantity.IsSet() {
		var err error
		if n, err = parsePositive(quantity); err != nil {
			return nil, 0, err
		}
	}
	sw, err := s.repo.AdjustQuantity(ctx, id, -n)
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}
	s.invalidate(ctx, id)
	return sw, n, nil
}

// Restock добавляет quantity единиц. Только для администратора.
func (s *InventoryService) Restock(ctx context.Context, claim models.Claim, id int64, quantity numeric.Loose) (*models.Sweet, error) {
	const op = "services.inventory.Restock"
	sw, n, err := s.restock(ctx, claim, id, quantity)
	s.record("restock", err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	metrics.StockUnitsTotal.WithLabelValues("restocked").Add(float64(n))
	s.log.Info("sweet restocked",
		slog.Int64("id", id),
		slog.Int("quantity", n),
		slog.Int("remaining", sw.Quantity),
		slog.String("user_id", claim.UserID),
	)
	return sw, nil
}

func (s *InventoryService) restock(ctx context.Context, claim models.Claim, id int64, quantity numeric.Loose) (*models.Sweet, int, error) {
	if err := authorize(claim, models.RoleAdmin); err != nil {
		return nil, 0, err
	}
	n, err := parsePositive(quantity)
	if err != nil {
		return nil, 0, err
	}
	sw, err := s.repo.AdjustQuantity(ctx, id, n)
	if errors.Is(err, storage.ErrOutOfRange) {
		return nil, 0, models.NewValidationError("quantity", "exceeds maximum stock")
	}
	if err != nil {
		return nil, 0, mapStoreErr(err)
	}
	s.invalidate(ctx, id)
	return sw, n, nil
}

// parsePositive разбирает количество для покупки и пополнения: целое больше нуля.
func parsePositive(l numeric.Loose) (int, error) {
	n, err := numeric.ParseQuantity(l)
	switch {
	case errors.Is(err, numeric.ErrMissing):
		return 0, models.NewValidationError("quantity", err.Error())
	case errors.Is(err, numeric.ErrNegative):
		return 0, models.NewValidationError("quantity", "must be a positive integer")
	case err != nil:
		return 0, models.NewValidationError("quantity", err.Error())
	case n == 0:
		return 0, models.NewValidationError("quantity", "must be a positive integer")
	}
	return n, nil
}

// parseFields разбирает цену и количество и проверяет поля товара.
func (s *InventoryService) parseFields(in models.SweetInput) (models.SweetFields, error) {
	fields := models.SweetFields{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
	}
	if err := s.validate.Struct(fields, models.ErrValidation); err != nil {
		return fields, err
	}
	price, err := numeric.ParsePrice(in.Price)
	if err != nil {
		return fields, models.NewValidationError("price", err.Error())
	}
	quantity, err := numeric.ParseQuantity(in.Quantity)
	if err != nil {
		return fields, models.NewValidationError("quantity", err.Error())
	}
	fields.Price = price
	fields.Quantity = quantity
	if err := s.validate.Struct(fields, models.ErrValidation); err != nil {
		return fields, err
	}
	return fields, nil
}

func (s *InventoryService) invalidate(ctx context.Context, id int64) {
	key := cacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}

func (s *InventoryService) checkLowStock(ctx context.Context, sw *models.Sweet) {
	if sw.Quantity > s.opts.LowStockThreshold {
		return
	}
	event := models.LowStockEvent{
		SweetID:    sw.ID,
		Name:       sw.Name,
		Quantity:   sw.Quantity,
		Threshold:  s.opts.LowStockThreshold,
		OccurredAt: s.now().UTC(),
	}
	if err := s.notifier.NotifyLowStock(ctx, event); err != nil {
		metrics.LowStockEventsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.log.Warn("failed to publish low stock event", slog.Int64("id", sw.ID), sl.Err(err))
		return
	}
	metrics.LowStockEventsTotal.WithLabelValues(metrics.ResultOK).Inc()
}

// mapStoreErr переводит ошибки хранилища в ошибки предметной области.
// Неизвестные ошибки возвращаются как есть и становятся внутренними.
func mapStoreErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	case errors.Is(err, storage.ErrInsufficient):
		return fmt.Errorf("%w: %v", models.ErrInsufficientStock, err)
	case errors.Is(err, storage.ErrConstraint), errors.Is(err, storage.ErrOutOfRange):
		return &models.FieldError{Kind: models.ErrValidation, Field: "sweet", Reason: "violates a storage constraint"}
	default:
		return err
	}
}

func (s *InventoryService) record(operation string, err error) {
	metrics.InventoryOperationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidInput):
		return metrics.ResultInvalid
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrMissingToken):
		return metrics.ResultForbidden
	case errors.Is(err, models.ErrNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, models.ErrInsufficientStock):
		return metrics.ResultInsufficient
	default:
		return metrics.ResultError
	}
}
