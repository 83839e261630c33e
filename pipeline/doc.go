// Package pipeline configures the workflow engine for the two extraction
// domains: PK summary tables and PE study info tables.
//
// The PK summary workflow categorizes the source columns, splits the table,
// identifies the drugs, matches rows to drugs (without a model call when the
// table reports on a single drug), extracts parameter units and values,
// assembles the pieces and cleans up the rows:
//
//	column_categorization -> table_split -> drug_info
//	    -> drug_matching_auto | drug_matching_agent
//	    -> unit_extraction -> value_extraction -> assembly -> row_cleanup
//
// The PE study info workflow is study_info -> study_info_table.
//
// # Usage
//
//	ex := pipeline.NewExtractor(c,
//	    pipeline.WithInterval(2*time.Second),
//	    pipeline.WithLogger(logger),
//	)
//	out, err := ex.ExtractPKSummary(ctx, pipeline.Input{
//	    ID:      "PMC123/table2",
//	    Table:   src,
//	    Caption: caption,
//	})
//
// RunBatch runs many inputs concurrently and collects failures without
// aborting the batch:
//
//	res := pipeline.RunBatch(ctx, inputs, ex.ExtractPKSummary, 4)
//	fmt.Println(res.Summary())
package pipeline
