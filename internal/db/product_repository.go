package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/RETORNOSEGUROS/FamilyMarket/internal/models"
)

const productsCollection = "products"

// firestoreProductRepository implements the ProductRepository interface using Firestore.
type firestoreProductRepository struct {
	client *firestore.Client
}

// NewFirestoreProductRepository creates a new instance of firestoreProductRepository.
func NewFirestoreProductRepository(client *firestore.Client) ProductRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for ProductRepository.")
	}
	return &firestoreProductRepository{client: client}
}

// Create adds a new product document with an auto-generated ID.
func (r *firestoreProductRepository) Create(ctx context.Context, product *models.Product) (string, error) {
	docRef := r.client.Collection(productsCollection).NewDoc()
	product.ID = docRef.ID

	_, err := docRef.Create(ctx, product)
	if err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}
	return docRef.ID, nil
}

// GetByID retrieves a product document by its ID.
func (r *firestoreProductRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	if productID == "" {
		return nil, errors.New("productID cannot be empty for GetByID operation")
	}
	docSnap, err := r.client.Collection(productsCollection).Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("product with ID '%s' not found: %w", productID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product with ID '%s': %w", productID, err)
	}

	var product models.Product
	if err := docSnap.DataTo(&product); err != nil {
		return nil, fmt.Errorf("failed to decode product data for ID '%s': %w", productID, err)
	}
	product.ID = docSnap.Ref.ID

	return &product, nil
}

// GetByFamilyID returns all products of a family ordered by name.
// Requires the composite index on (familyId, name).
func (r *firestoreProductRepository) GetByFamilyID(ctx context.Context, familyID string) ([]*models.Product, error) {
	if familyID == "" {
		return nil, errors.New("familyID cannot be empty for GetByFamilyID operation")
	}

	iter := r.client.Collection(productsCollection).
		Where("familyId", "==", familyID).
		OrderBy("name", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	var products []*models.Product
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products for family '%s': %w", familyID, err)
		}

		var product models.Product
		if err := doc.DataTo(&product); err != nil {
			log.Printf("Error decoding product data (ID: %s) for family '%s': %v. Skipping.", doc.Ref.ID, familyID, err)
			continue
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}

	return products, nil
}

// Update writes the product document back with MergeAll.
func (r *firestoreProductRepository) Update(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		return errors.New("product ID cannot be empty for Update operation")
	}
	_, err := r.client.Collection(productsCollection).Doc(product.ID).Set(ctx, product, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update product with ID '%s': %w", product.ID, err)
	}
	return nil
}

// Delete removes a product document. No history is retained.
func (r *firestoreProductRepository) Delete(ctx context.Context, productID string) error {
	if productID == "" {
		return errors.New("productID cannot be empty for Delete operation")
	}
	_, err := r.client.Collection(productsCollection).Doc(productID).Delete(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("product with ID '%s' not found for deletion: %w", productID, ErrNotFound)
		}
		return fmt.Errorf("failed to delete product with ID '%s': %w", productID, err)
	}
	return nil
}
