package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"fender-store/internal/models"
	"fender-store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AdminService struct {
	repo   *repository.Repository
	hasher PasswordHasher
	media  MediaStore // nil, если MinIO выключен
	now    func() time.Time
	log    *zap.Logger
}

func NewAdminService(repo *repository.Repository, hasher PasswordHasher, media MediaStore, log *zap.Logger) *AdminService {
	return &AdminService{
		repo:   repo,
		hasher: hasher,
		media:  media,
		now:    time.Now,
		log:    log,
	}
}

// mapWriteErr переводит нарушения ограничений БД в доменные ошибки
func mapWriteErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: referenced row does not exist", ErrNotFound)
	}
	return err
}

func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.Users, err = s.repo.Users.Count(ctx); err != nil {
		return nil, err
	}
	if d.Categories, err = s.repo.Categories.Count(ctx); err != nil {
		return nil, err
	}
	if d.Products, err = s.repo.Products.Count(ctx); err != nil {
		return nil, err
	}
	if d.Variants, err = s.repo.Variants.Count(ctx); err != nil {
		return nil, err
	}
	if d.Orders, err = s.repo.Orders.Count(ctx); err != nil {
		return nil, err
	}
	return &d, nil
}

// Users

func (s *AdminService) ListUsers(ctx context.Context, p ListParams) ([]models.User, int64, error) {
	return s.repo.Users.List(ctx, p.Limit, p.Offset)
}

func (s *AdminService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := s.repo.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *AdminService) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	in.Email = normalizeEmail(in.Email)
	if err := Validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.Users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		Email:       in.Email,
		Password:    hash,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsActive:    in.IsActive,
		IsStaff:     in.IsStaff,
		IsSuperuser: in.IsSuperuser,
		CreatedAt:   s.now(),
	}
	if err := s.repo.Users.Create(ctx, u); err != nil {
		return nil, mapWriteErr(err)
	}
	return u, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*models.User, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		other, err := s.repo.Users.GetByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if other != nil && other.ID != id {
			return nil, ErrEmailExists
		}
		fields["email"] = email
	}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.IsStaff != nil {
		fields["is_staff"] = *in.IsStaff
	}
	if in.IsSuperuser != nil {
		fields["is_superuser"] = *in.IsSuperuser
	}
	if err := s.repo.Users.UpdateFields(ctx, id, fields); err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetUser(ctx, id)
}

// DeleteUser оставляет заказы пользователя с user_id = NULL
func (s *AdminService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Users.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

// Categories

func (s *AdminService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo.Categories.List(ctx)
}

func (s *AdminService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repo.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrCategoryNotFound
	}
	return c, nil
}

func (s *AdminService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	c := &models.Category{Name: strings.TrimSpace(in.Name), Slug: in.Slug, Image: in.Image}
	if err := s.repo.Categories.Create(ctx, c); err != nil {
		return nil, mapWriteErr(err)
	}
	return c, nil
}

func (s *AdminService) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = strings.TrimSpace(in.Name)
	if in.Slug != "" {
		c.Slug = in.Slug
	}
	c.Image = in.Image
	if err := s.repo.Categories.Update(ctx, c); err != nil {
		return nil, mapWriteErr(err)
	}
	return c, nil
}

func (s *AdminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

// Products

// ListProducts игнорирует несуществующую категорию в фильтре
func (s *AdminService) ListProducts(ctx context.Context, categoryID *uuid.UUID, p ListParams) ([]models.Product, int64, error) {
	f := repository.ProductListFilter{OrderBy: "name", Limit: p.Limit, Offset: p.Offset}
	if categoryID != nil {
		c, err := s.repo.Categories.GetByID(ctx, *categoryID)
		if err != nil {
			return nil, 0, err
		}
		if c != nil {
			f.CategoryID = &c.ID
		}
	}
	return s.repo.Products.List(ctx, f)
}

func (s *AdminService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func validateVariant(idx int, v VariantInput) error {
	if err := Validate(v); err != nil {
		var verr *ValidationError
		if idx >= 0 && errors.As(err, &verr) {
			for i := range verr.Fields {
				verr.Fields[i].Field = fmt.Sprintf("variants[%d].%s", idx, verr.Fields[i].Field)
			}
		}
		return err
	}
	if v.Price.IsNegative() || v.Price.Exponent() < -2 {
		field := "price"
		if idx >= 0 {
			field = fmt.Sprintf("variants[%d].price", idx)
		}
		return fieldErr(field, "must be a non-negative amount with at most 2 decimal places", "decimal")
	}
	return nil
}

func variantFromInput(productID uuid.UUID, in VariantInput) models.ProductVariant {
	return models.ProductVariant{
		ProductID:      productID,
		Color:          strings.TrimSpace(in.Color),
		ModelNumber:    in.ModelNumber,
		Price:          in.Price.Round(2),
		Stock:          in.Stock,
		Image:          in.Image,
		SecondaryImage: in.SecondaryImage,
		VideoURL:       in.VideoURL,
	}
}

func (s *AdminService) validateProduct(ctx context.Context, in ProductInput) error {
	in.Variants = nil
	if err := Validate(in); err != nil {
		return err
	}
	if in.CategoryID != nil {
		c, err := s.repo.Categories.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			return fieldErr("category_id", "category does not exist", "exists")
		}
	}
	return nil
}

// CreateProduct создаёт товар и его варианты в одной транзакции
func (s *AdminService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := s.validateProduct(ctx, in); err != nil {
		return nil, err
	}
	for i, v := range in.Variants {
		if err := validateVariant(i, v); err != nil {
			return nil, err
		}
	}

	p := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Slug:        in.Slug,
		CategoryID:  in.CategoryID,
	}
	for _, v := range in.Variants {
		p.Variants = append(p.Variants, variantFromInput(uuid.Nil, v))
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		return tx.Products.Create(ctx, p)
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetProduct(ctx, p.ID)
}

// UpdateProduct обновляет поля товара; если in.Variants не nil, варианты
// синхронизируются: с id обновляются, без id создаются, отсутствующие удаляются.
func (s *AdminService) UpdateProduct(ctx context.Context, id uuid.UUID, in ProductInput) (*models.Product, error) {
	if err := s.validateProduct(ctx, in); err != nil {
		return nil, err
	}
	for i, v := range in.Variants {
		if err := validateVariant(i, v); err != nil {
			return nil, err
		}
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		p, err := tx.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return ErrProductNotFound
		}

		p.Name = strings.TrimSpace(in.Name)
		p.Description = in.Description
		p.CategoryID = in.CategoryID
		if in.Slug != "" {
			p.Slug = in.Slug
		}
		existing := p.Variants
		p.Variants, p.Category = nil, nil
		if err := tx.Products.Update(ctx, p); err != nil {
			return err
		}

		if in.Variants == nil {
			return nil
		}

		owned := make(map[uuid.UUID]models.ProductVariant, len(existing))
		for _, v := range existing {
			owned[v.ID] = v
		}

		keep := make([]uuid.UUID, 0, len(in.Variants))
		for _, vin := range in.Variants {
			v := variantFromInput(p.ID, vin)
			if vin.ID != nil {
				cur, ok := owned[*vin.ID]
				if !ok {
					return fmt.Errorf("%w: %s", ErrVariantNotFound, *vin.ID)
				}
				v.ID, v.CreatedAt = cur.ID, cur.CreatedAt
				if err := tx.Variants.Update(ctx, &v); err != nil {
					return err
				}
				keep = append(keep, v.ID)
				continue
			}
			if err := tx.Variants.Create(ctx, &v); err != nil {
				return err
			}
			keep = append(keep, v.ID)
		}

		// удаляем варианты, которых нет во входных данных
		_, err = tx.Variants.DeleteByProductExcept(ctx, p.ID, keep)
		return err
	})
	if err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetProduct(ctx, id)
}

func (s *AdminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Products.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}

// Variants

func (s *AdminService) ListVariants(ctx context.Context, p ListParams) ([]models.ProductVariant, int64, error) {
	return s.repo.Variants.List(ctx, p.Limit, p.Offset)
}

func (s *AdminService) GetVariant(ctx context.Context, id uuid.UUID) (*models.ProductVariant, error) {
	v, err := s.repo.Variants.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, ErrVariantNotFound
	}
	return v, nil
}

func (s *AdminService) CreateVariant(ctx context.Context, in VariantInput) (*models.ProductVariant, error) {
	if err := validateVariant(-1, in); err != nil {
		return nil, err
	}
	p, err := s.repo.Products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fieldErr("product_id", "product does not exist", "exists")
	}
	v := variantFromInput(p.ID, in)
	if err := s.repo.Variants.Create(ctx, &v); err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetVariant(ctx, v.ID)
}

func (s *AdminService) UpdateVariant(ctx context.Context, id uuid.UUID, in VariantInput) (*models.ProductVariant, error) {
	if err := validateVariant(-1, in); err != nil {
		return nil, err
	}
	cur, err := s.GetVariant(ctx, id)
	if err != nil {
		return nil, err
	}
	productID := cur.ProductID
	if in.ProductID != uuid.Nil && in.ProductID != productID {
		p, err := s.repo.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, fieldErr("product_id", "product does not exist", "exists")
		}
		productID = p.ID
	}
	v := variantFromInput(productID, in)
	v.ID, v.CreatedAt = cur.ID, cur.CreatedAt
	if err := s.repo.Variants.Update(ctx, &v); err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetVariant(ctx, id)
}

func (s *AdminService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Variants.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrVariantNotFound
	}
	return nil
}

// Orders

func (s *AdminService) ListOrders(ctx context.Context, p ListParams) ([]models.Order, int64, error) {
	return s.repo.Orders.List(ctx, p.Limit, p.Offset)
}

func (s *AdminService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func validateAdminOrder(in AdminOrderInput) error {
	if err := Validate(in); err != nil {
		return err
	}
	if err := Validate(in.Shipping); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			for i := range verr.Fields {
				verr.Fields[i].Field = "shipping." + verr.Fields[i].Field
			}
		}
		return err
	}
	return nil
}

// CreateOrder создаёт заказ от имени сотрудника: сумма 0, позиций нет
func (s *AdminService) CreateOrder(ctx context.Context, staffID uuid.UUID, in AdminOrderInput) (*models.Order, error) {
	if err := validateAdminOrder(in); err != nil {
		return nil, err
	}
	now := s.now()
	sid := staffID
	o := &models.Order{
		UserID:      &sid,
		TotalAmount: decimal.Zero,
		IsPaid:      in.IsPaid,
		Status:      models.OrderStatus(in.Status),
		Shipping:    in.Shipping.address(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Orders.Create(ctx, o); err != nil {
		return nil, mapWriteErr(err)
	}
	s.log.Info("Order created by staff", zap.String("order_id", o.ID.String()), zap.String("staff_id", staffID.String()))
	return s.GetOrder(ctx, o.ID)
}

// UpdateOrder меняет статус, флаг оплаты и адрес; total_amount не трогается
func (s *AdminService) UpdateOrder(ctx context.Context, id uuid.UUID, in AdminOrderInput) (*models.Order, error) {
	if err := validateAdminOrder(in); err != nil {
		return nil, err
	}
	if _, err := s.GetOrder(ctx, id); err != nil {
		return nil, err
	}
	addr := in.Shipping.address()
	fields := map[string]any{
		"status":                 models.OrderStatus(in.Status),
		"is_paid":                in.IsPaid,
		"shipping_full_name":     addr.FullName,
		"shipping_address_line1": addr.AddressLine1,
		"shipping_address_line2": addr.AddressLine2,
		"shipping_city":          addr.City,
		"shipping_state":         addr.State,
		"shipping_postal_code":   addr.PostalCode,
		"shipping_country":       addr.Country,
		"shipping_phone":         addr.Phone,
	}
	if err := s.repo.Orders.UpdateFields(ctx, id, fields); err != nil {
		return nil, mapWriteErr(err)
	}
	return s.GetOrder(ctx, id)
}

func (s *AdminService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	ok, err := s.repo.Orders.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// UploadMedia stores an image and returns the object path to reference from
// a category or variant.
func (s *AdminService) UploadMedia(ctx context.Context, folder, filename string, r io.Reader, size int64) (string, error) {
	if s.media == nil {
		return "", ErrStorageDisabled
	}
	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedImageExt[ext]
	if !ok {
		return "", fieldErr("file", "allowed types: jpg, jpeg, png, webp, gif", "image")
	}
	switch folder {
	case "categories", "variants":
	default:
		folder = "uploads"
	}
	object := path.Join(folder, uuid.NewString()+ext)
	stored, err := s.media.Upload(ctx, object, r, size, contentType)
	if err != nil {
		return "", fmt.Errorf("upload media: %w", err)
	}
	s.log.Info("Media uploaded", zap.String("object", stored))
	return stored, nil
}
