// Package dimension decides how each dataset field is treated by the views.
//
// A [Classifier] holds a fixed membership list of categorical fields. Every
// other field is continuous. Classification looks only at the field name,
// never at the values, so a numeric-looking categorical field (an hour of the
// day configured as categorical, say) stays categorical and a continuous
// field with a stray text cell stays continuous.
//
// Each categorical field carries an [Order]: either lexicographic, or a fixed
// sequence for enumerated fields such as seasons. Values outside a fixed
// sequence follow it in lexicographic order, which keeps the order total and
// deterministic for any input.
//
// The schema of a dataset is resolved once per load:
//
//	schema := dimension.DefaultClassifier().Schema(ds.Fields)
//	temp, _ := schema.Lookup("Temperature")   // Continuous
//	seasons, _ := schema.Lookup("Seasons")    // Categorical, Spring..Winter
package dimension
