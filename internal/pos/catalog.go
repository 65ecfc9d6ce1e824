package pos

import (
	"context"

	"go.uber.org/zap"

	"github.com/xenking/till/internal/domain/product"
)

// Products returns the catalog in id order.
func (t *Terminal) Products() []product.Product {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.List()
}

// Product returns one catalog entry.
func (t *Terminal) Product(id int64) (product.Product, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, ok := t.catalog.Get(id)
	if !ok {
		return product.Product{}, product.ErrNotFound
	}
	return p, nil
}

// Categories returns "All" followed by the distinct product categories.
func (t *Terminal) Categories() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.Categories()
}

// SearchProducts filters the catalog by name and category.
func (t *Terminal) SearchProducts(query, category string) []product.Product {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.catalog.Search(query, category)
}

// AddProduct creates a catalog entry.
func (t *Terminal) AddProduct(ctx context.Context, passphrase string, d product.Draft) (product.Product, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var created product.Product
	err := t.privileged("add product", passphrase, func() error {
		p, err := t.catalog.Add(d)
		if err != nil {
			return err
		}
		created = p
		return t.save(ctx)
	})
	if err != nil {
		return product.Product{}, err
	}

	t.lg.Info("Product added", zap.Int64("product_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

// UpdateProduct replaces the fields of an existing product. Lines already in
// the cart keep the price they were added at.
func (t *Terminal) UpdateProduct(ctx context.Context, passphrase string, id int64, d product.Draft) (product.Product, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var updated product.Product
	err := t.privileged("update product", passphrase, func() error {
		p, err := t.catalog.Update(id, d)
		if err != nil {
			return err
		}
		updated = p
		return t.save(ctx)
	})
	if err != nil {
		return product.Product{}, err
	}

	t.lg.Info("Product updated", zap.Int64("product_id", id))
	return updated, nil
}

// DeleteProduct removes a product from the catalog. Cart lines and past
// sales referring to it are kept.
func (t *Terminal) DeleteProduct(ctx context.Context, passphrase string, id int64, confirm bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	err := t.privileged("delete product", passphrase, func() error {
		if _, ok := t.catalog.Get(id); !ok {
			return product.ErrNotFound
		}
		if !confirm {
			return ErrConfirmationRequired
		}
		if err := t.catalog.Delete(id); err != nil {
			return err
		}
		return t.save(ctx)
	})
	if err != nil {
		return err
	}

	t.lg.Info("Product deleted", zap.Int64("product_id", id))
	return nil
}
