// internal/importer/templates.go
package importer

// Sample CSV templates served for download so upload files can be prepared
// against the expected columns.

const productsTemplate = `sku,style_code,style_name,category,size,gender,cost_price,retail_price
RUN001-9,RUN001,Running Shoes Pro,Running,9,M,50.00,100.00
RUN001-10,RUN001,Running Shoes Pro,Running,10,M,50.00,100.00
CAS001-8,CAS001,Casual Sneakers,Casual,8,U,45.00,90.00
`

const stockTemplate = `store_id,sku,quantity
STORE01,RUN001-9,1
STORE01,RUN001-10,5
STORE02,RUN001-9,10
`

const salesTemplate = `store_id,sku,sale_date,quantity
STORE01,RUN001-9,2024-01-15,1
STORE01,RUN001-10,2024-01-15,2
STORE02,RUN001-9,2024-01-14,1
`

// Template returns the sample CSV payload and filename for a dataset kind.
func Template(kind string) (filename, payload string, ok bool) {
	switch kind {
	case "products":
		return "products_template.csv", productsTemplate, true
	case "stock":
		return "stock_template.csv", stockTemplate, true
	case "sales":
		return "sales_template.csv", salesTemplate, true
	}
	return "", "", false
}
