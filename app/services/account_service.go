package services

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/mellomelt/app/helpers"
	"github.com/Rakhulsr/mellomelt/app/models"
	"github.com/Rakhulsr/mellomelt/app/repositories"
	"github.com/go-playground/validator/v10"
)

// AccountService backs the signed-in account pages: saved addresses and
// the wishlist.
type AccountService struct {
	addresses repositories.AddressRepository
	wishlist  repositories.WishlistRepository
	catalog   repositories.ProductRepositoryImpl
	validate  *validator.Validate
}

func NewAccountService(addresses repositories.AddressRepository, wishlist repositories.WishlistRepository, catalog repositories.ProductRepositoryImpl, validate *validator.Validate) *AccountService {
	if validate == nil {
		validate = helpers.NewValidator()
	}
	return &AccountService{addresses: addresses, wishlist: wishlist, catalog: catalog, validate: validate}
}

func (s *AccountService) Addresses(ctx context.Context, userID string) ([]models.Address, error) {
	return s.addresses.FindAddressesByUserID(ctx, userID)
}

func (s *AccountService) AddAddress(ctx context.Context, userID string, form models.AddressForm, primary bool) (*models.Address, error) {
	if err := validationError(helpers.ValidateStruct(s.validate, form)); err != nil {
		return nil, err
	}
	address := &models.Address{
		UserID:    userID,
		FullName:  form.FullName,
		Phone:     form.Phone,
		Address:   form.Address,
		City:      form.City,
		State:     form.State,
		Pincode:   form.Pincode,
		IsPrimary: primary,
	}
	if err := s.addresses.CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func (s *AccountService) Address(ctx context.Context, userID, id string) (*models.Address, error) {
	return s.addresses.FindAddressByID(ctx, userID, id)
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID, id string) error {
	return s.addresses.DeleteAddress(ctx, userID, id)
}

func (s *AccountService) SetPrimaryAddress(ctx context.Context, userID, id string) error {
	return s.addresses.SetPrimaryAddress(ctx, userID, id)
}

// Wishlist returns the user's saved products. Entries whose product left
// the catalog are skipped.
func (s *AccountService) Wishlist(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	items, err := s.wishlist.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load wishlist: %w", err)
	}
	out := make([]models.WishlistItem, 0, len(items))
	for _, item := range items {
		p, err := s.catalog.GetByID(ctx, item.ProductID)
		if err != nil {
			continue
		}
		item.Product = p
		out = append(out, item)
	}
	return out, nil
}

func (s *AccountService) AddToWishlist(ctx context.Context, userID, productID string) (*models.WishlistItem, error) {
	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	item, err := s.wishlist.Add(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	item.Product = p
	return item, nil
}

func (s *AccountService) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	return s.wishlist.Remove(ctx, userID, productID)
}
