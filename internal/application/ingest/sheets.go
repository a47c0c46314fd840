package ingest

// Nombres de las hojas del libro de carga.
const (
	SheetProducts  = "Products"
	SheetCustomers = "Customers"
	SheetEmployees = "Employees"
	SheetSales     = "Sales Transactions"
)

// Columnas de "Products": [ProductID, ProductName, BU, Division, Industry].
const (
	colProductID = iota
	colProductName
	colProductBU
	colProductDivision
	colProductIndustry
)

// Columnas de "Customers".
const (
	colCustomerID = iota
	colCustomerName
	colCustomerRegion
	colCustomerProvince
	colCustomerDistrict
	colCustomerIndustry
	colCustomerExecutiveName
	colCustomerEmail
	colCustomerPhone
)

// Columnas de "Employees".
const (
	colExecutiveID = iota
	colExecutiveName
	colExecutiveTitle
	colExecutiveRegion
	colExecutiveEmail
	colExecutivePhone
)

// Columnas de "Sales Transactions".
const (
	colSaleTransactionID = iota
	colSaleDate
	colSaleProductID
	colSaleCustomerID
	colSaleExecutiveID
	colSaleScenario
	colSaleQuantity
	colSaleUnitPrice
	colSaleRevenue
	colSaleCOGS
)

// headerRows la fila 0 de cada hoja es la cabecera.
const headerRows = 1
