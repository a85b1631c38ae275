package service

import "tableside/internal/domain"

type MenuService struct {
	repo MenuRepository
	qr   QRGenerator
}

func NewMenuService(repo MenuRepository, qr QRGenerator) *MenuService {
	return &MenuService{repo: repo, qr: qr}
}

func (s *MenuService) Store(id int64) (*domain.Store, error) {
	return s.repo.GetStore(id)
}

func (s *MenuService) Table(storeID, tableID int64) (*domain.Table, error) {
	return s.repo.GetTable(storeID, tableID)
}

func (s *MenuService) Categories(storeID int64) ([]domain.Category, error) {
	return s.repo.ListCategories(storeID)
}

func (s *MenuService) Products(storeID int64) ([]domain.Product, error) {
	return s.repo.ListProducts(storeID)
}

func (s *MenuService) TableQR(storeID, tableID int64) ([]byte, error) {
	return s.qr.Generate(storeID, tableID)
}
