package migrate

import (
	"context"

	"fender-store/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, pg_trgm
	CreateChecks           bool // CHECK-constraint'ы
	CreateIndexes          bool // функциональные и частичные UNIQUE
	CreateUpdatedAtTrigger bool // триггеры updated_at
	CreateSearchIndexes    bool // GIN trgm для поиска по name/description
	CreateFKsViaSQL        bool // FK через Exec после AutoMigrate (связи в моделях помечены -:migration)
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateUpdatedAtTrigger: true,
		CreateSearchIndexes:    true,
		CreateFKsViaSQL:        true,
	}
}

func MigrateStoreDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы магазина")
	db = db.WithContext(ctx)

	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
			log.Error("Не удалось включить расширение pgcrypto", zap.Error(err))
			return err
		}
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
			log.Error("Не удалось включить расширение pg_trgm", zap.Error(err))
			return err
		}
		log.Info("Расширения созданы")
	}

	// Порядок важен: FK создаются по связям моделей
	log.Info("Создание таблиц: users, categories, products, product_variants, carts, cart_items, orders, order_items")
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Error("AutoMigrate error", zap.Error(err))
		return err
	}
	log.Info("Таблицы созданы")

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		if err := db.Exec(`
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_users_updated ON users;
CREATE TRIGGER trg_users_updated BEFORE UPDATE ON users
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_products_updated ON products;
CREATE TRIGGER trg_products_updated BEFORE UPDATE ON products
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_product_variants_updated ON product_variants;
CREATE TRIGGER trg_product_variants_updated BEFORE UPDATE ON product_variants
FOR EACH ROW EXECUTE FUNCTION set_updated_at();

DROP TRIGGER IF EXISTS trg_orders_updated ON orders;
CREATE TRIGGER trg_orders_updated BEFORE UPDATE ON orders
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`).Error; err != nil {
			log.Error("triggers error", zap.Error(err))
			return err
		}
		log.Info("Триггеры созданы")
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")

		// Остаток не ограничен снизу: политика backorder допускает отрицательные значения
		if err := db.Exec(`
ALTER TABLE product_variants
	DROP CONSTRAINT IF EXISTS chk_variants_price_non_negative,
	ADD CONSTRAINT chk_variants_price_non_negative
	CHECK (price >= 0);
`).Error; err != nil {
			log.Error("chk variants.price", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE cart_items
	DROP CONSTRAINT IF EXISTS chk_cart_items_quantity_positive,
	ADD CONSTRAINT chk_cart_items_quantity_positive
	CHECK (quantity >= 1);
`).Error; err != nil {
			log.Error("chk cart_items.quantity", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE order_items
	DROP CONSTRAINT IF EXISTS chk_order_items_quantity_positive,
	ADD CONSTRAINT chk_order_items_quantity_positive
	CHECK (quantity >= 1 AND price >= 0);
`).Error; err != nil {
			log.Error("chk order_items", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_status_allowed,
	ADD CONSTRAINT chk_orders_status_allowed
	CHECK (status IN ('pending','paid','sending','completed'));
`).Error; err != nil {
			log.Error("chk orders.status", zap.Error(err))
			return err
		}

		if err := db.Exec(`
ALTER TABLE orders
	DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative,
	ADD CONSTRAINT chk_orders_total_non_negative
	CHECK (total_amount >= 0);
`).Error; err != nil {
			log.Error("chk orders.total_amount", zap.Error(err))
			return err
		}

		log.Info("CHECK-и созданы")
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов и уникальностей")

		if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS ux_users_email ON users (lower(email))`).Error; err != nil {
			log.Error("Не удалось создать уникальный индекс на lower(email)", zap.Error(err))
			return err
		}

		// Одна корзина на пользователя и одна на анонимную сессию
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_user
ON carts (user_id) WHERE user_id IS NOT NULL;
`).Error; err != nil {
			log.Error("ux carts user", zap.Error(err))
			return err
		}
		if err := db.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS ux_carts_session
ON carts (session_key) WHERE user_id IS NULL AND session_key IS NOT NULL;
`).Error; err != nil {
			log.Error("ux carts session", zap.Error(err))
			return err
		}

		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS ix_orders_user_created
ON orders (user_id, created_at DESC);
`).Error; err != nil {
			log.Error("ix orders user_created", zap.Error(err))
			return err
		}

		log.Info("Индексы созданы")
	}

	if opt.CreateSearchIndexes {
		log.Info("Создание GIN(trgm) индексов для поиска")
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS gin_products_name_trgm
ON products USING gin (name gin_trgm_ops);
`).Error; err != nil {
			log.Error("gin name", zap.Error(err))
			return err
		}
		if err := db.Exec(`
CREATE INDEX IF NOT EXISTS gin_products_description_trgm
ON products USING gin (description gin_trgm_ops);
`).Error; err != nil {
			log.Error("gin description", zap.Error(err))
			return err
		}
		log.Info("GIN индексы созданы")
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")

		// товар переживает удаление категории
		if err := db.Exec(`
ALTER TABLE products
  DROP CONSTRAINT IF EXISTS fk_products_category,
  ADD CONSTRAINT fk_products_category
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL;
`).Error; err != nil {
			log.Error("fk products.category_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE product_variants
  DROP CONSTRAINT IF EXISTS fk_variants_product,
  ADD CONSTRAINT fk_variants_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk product_variants.product_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE carts
  DROP CONSTRAINT IF EXISTS fk_carts_user,
  ADD CONSTRAINT fk_carts_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk carts.user_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_cart,
  ADD CONSTRAINT fk_cart_items_cart
    FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk cart_items.cart_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE cart_items
  DROP CONSTRAINT IF EXISTS fk_cart_items_variant,
  ADD CONSTRAINT fk_cart_items_variant
    FOREIGN KEY (variant_id) REFERENCES product_variants(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk cart_items.variant_id", zap.Error(err))
			return err
		}
		// заказы и их позиции не зависят от жизни пользователя и варианта
		if err := db.Exec(`
ALTER TABLE orders
  DROP CONSTRAINT IF EXISTS fk_orders_user,
  ADD CONSTRAINT fk_orders_user
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL;
`).Error; err != nil {
			log.Error("fk orders.user_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_order,
  ADD CONSTRAINT fk_order_items_order
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE;
`).Error; err != nil {
			log.Error("fk order_items.order_id", zap.Error(err))
			return err
		}
		if err := db.Exec(`
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_variant,
  ADD CONSTRAINT fk_order_items_variant
    FOREIGN KEY (variant_id) REFERENCES product_variants(id) ON DELETE SET NULL;
`).Error; err != nil {
			log.Error("fk order_items.variant_id", zap.Error(err))
			return err
		}

		log.Info("Внешние ключи созданы")
	}

	log.Info("Миграция базы магазина завершена")
	return nil
}
