package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invdomain "github.com/vestrapos/vestra/internal/inventory/domain"
)

func (s *Server) createProduct(c *gin.Context) {
	var req invdomain.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.SKU = strings.TrimSpace(req.SKU)
	req.Barcode = strings.TrimSpace(req.Barcode)

	resp, err := s.productsvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) listProducts(c *gin.Context) {
	var req invdomain.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	products, page, err := s.productsvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": products, "page_info": page})
}

func (s *Server) getProduct(c *gin.Context) {
	resp, err := s.productsvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// getProductByBarcode resolves a scan: barcode first, SKU as fallback.
func (s *Server) getProductByBarcode(c *gin.Context) {
	resp, err := s.productsvc.GetByBarcode(c.Request.Context(), strings.TrimSpace(c.Param("code")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) updateProduct(c *gin.Context) {
	var req invdomain.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.ID = strings.TrimSpace(c.Param("id"))

	resp, err := s.productsvc.Update(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.productsvc.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) exportProducts(c *gin.Context) {
	data, err := s.productsvc.ExportCSV(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="products.csv"`)
	c.Data(http.StatusOK, "text/csv", data)
}

func (s *Server) importProducts(c *gin.Context) {
	data, err := readImportBody(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	report, err := s.productsvc.ImportCSV(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) clearProducts(c *gin.Context) {
	var req deleteGuardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if !s.verifyGuard(c, req.DeletePassword) {
		return
	}

	removed, err := s.productsvc.Clear(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": removed}})
}

// readImportBody accepts either a multipart upload under "file" or a raw
// CSV request body, so both the dashboard and curl imports work.
func readImportBody(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(f)
	}
	return io.ReadAll(c.Request.Body)
}
