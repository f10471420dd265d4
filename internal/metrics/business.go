package metrics

// IncrementSubmission counts a finished form submission
func (m *Metrics) IncrementSubmission(form, outcome string) {
	m.safeExecute("IncrementSubmission", func() {
		m.SubmissionsTotal.WithLabelValues(form, outcome).Inc()
	})
}

// IncrementAssetUpload counts an asset upload attempt by status
func (m *Metrics) IncrementAssetUpload(status string) {
	m.safeExecute("IncrementAssetUpload", func() {
		m.AssetUploadsTotal.WithLabelValues(status).Inc()
	})
}

// IncrementOrphanAsset counts an asset recorded for cleanup
func (m *Metrics) IncrementOrphanAsset() {
	m.safeExecute("IncrementOrphanAsset", func() {
		m.OrphanAssetsTotal.Inc()
	})
}

// SetProductsTotal sets total products gauge
func (m *Metrics) SetProductsTotal(count int64) {
	m.safeExecute("SetProductsTotal", func() {
		m.ProductsTotal.Set(float64(count))
	})
}

// SetEmployeesTotal sets total employees gauge
func (m *Metrics) SetEmployeesTotal(count int64) {
	m.safeExecute("SetEmployeesTotal", func() {
		m.EmployeesTotal.Set(float64(count))
	})
}
