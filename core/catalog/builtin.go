package catalog

import (
	"github.com/go-extras/go-kit/must"

	"github.com/stokaro/pgforge/core/object"
)

// Default returns the built-in catalog: the extensions and base tables of the
// content pipeline schema. Extensions occupy 001-010 and base tables 011-030.
func Default() *Catalog {
	return must.Must(New(builtinDefinitions()...))
}

func extension(number, name, ext, description, details string) Definition {
	return Definition{
		Number: number,
		Name:   name,
		Kind:   object.KindExtension,
		Content: map[string]string{
			"extension":   ext,
			"description": description,
			"details":     details,
		},
	}
}

func table(number, name, tableName, description, comment, columns string) Definition {
	return Definition{
		Number: number,
		Name:   name,
		Kind:   object.KindTable,
		Content: map[string]string{
			"table_name":  tableName,
			"description": description,
			"comment":     comment,
			"columns":     columns,
		},
	}
}

func builtinDefinitions() []Definition {
	return []Definition{
		extension("001", "enable_uuid_extension", "uuid-ossp",
			"Enable UUID generation extension",
			"Required for primary key generation across all tables"),
		extension("002", "enable_pgcrypto_extension", "pgcrypto",
			"Enable cryptographic functions extension",
			"Required for secure random generation and hashing"),
		extension("003", "enable_pgvector_extension", "vector",
			"Enable vector similarity search extension",
			"Required for embeddings and semantic search"),
		extension("004", "enable_pg_trgm_extension", "pg_trgm",
			"Enable trigram similarity search extension",
			"Required for fuzzy text search and similarity matching"),
		extension("005", "enable_btree_gist_extension", "btree_gist",
			"Enable B-tree GiST extension",
			"Required for exclusion constraints with scalar types"),

		table("011", "create_feed_sources_table", "feed_sources",
			"Create feed sources configuration table",
			"Configuration for all content feed sources (RSS, podcast, YouTube, API)",
			`    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    name VARCHAR(255) NOT NULL,
    type VARCHAR(50) NOT NULL CHECK (type IN ('podcast', 'rss', 'youtube', 'api', 'multi_source', 'reddit')),
    url TEXT NOT NULL,
    last_processed_at TIMESTAMP WITH TIME ZONE,
    is_active BOOLEAN DEFAULT true,
    config JSONB DEFAULT '{}',
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()`),
		table("012", "create_sectors_table", "sectors",
			"Create sectors lookup table",
			"Market sectors for entity classification",
			`    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    sector_name VARCHAR(100) NOT NULL UNIQUE,
    sector_code VARCHAR(10) UNIQUE,
    description TEXT,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()`),
		table("013", "create_cache_store_table", "cache_store",
			"Create database cache store table",
			"Simple key-value cache with TTL support",
			`    key VARCHAR(255) PRIMARY KEY,
    value JSONB NOT NULL,
    expires_at TIMESTAMP WITH TIME ZONE DEFAULT (NOW() + INTERVAL '1 hour'),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()`),
		table("014", "create_job_queue_table", "job_queue",
			"Create job queue table",
			"Database-based job queue for background processing",
			`    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    job_type VARCHAR(100) NOT NULL,
    priority INTEGER DEFAULT 5 CHECK (priority BETWEEN 1 AND 10),
    payload JSONB DEFAULT '{}',
    status VARCHAR(50) DEFAULT 'pending' CHECK (status IN ('pending', 'processing', 'completed', 'failed', 'retry')),
    attempts INTEGER DEFAULT 0,
    max_attempts INTEGER DEFAULT 3,
    error_message TEXT,
    scheduled_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    started_at TIMESTAMP WITH TIME ZONE,
    completed_at TIMESTAMP WITH TIME ZONE,
    expires_at TIMESTAMP WITH TIME ZONE DEFAULT (NOW() + INTERVAL '24 hours'),
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()`),
		table("015", "create_daily_analysis_table", "daily_analysis",
			"Create daily market analysis table",
			"AI-generated daily market analysis and insights",
			`    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    analysis_date DATE NOT NULL,
    market_sentiment VARCHAR(50),
    key_themes TEXT[] DEFAULT '{}',
    overall_summary TEXT,
    ai_analysis JSONB DEFAULT '{}',
    confidence_score FLOAT CHECK (confidence_score BETWEEN 0 AND 1),
    sources_analyzed INTEGER DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE(analysis_date)`),
		table("016", "create_kg_entity_types_table", "kg_entity_types",
			"Create knowledge graph entity types table",
			"Valid entity types and subtypes for knowledge graph",
			`    entity_type VARCHAR(50) PRIMARY KEY,
    entity_subtype VARCHAR(50) NOT NULL,
    description TEXT,
    schema_version VARCHAR(10) DEFAULT '1.0',
    is_active BOOLEAN DEFAULT true,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
    UNIQUE(entity_type, entity_subtype)`),
		table("017", "create_kg_relationship_types_table", "kg_relationship_types",
			"Create knowledge graph relationship types table",
			"Valid relationship types for knowledge graph",
			`    predicate VARCHAR(100) PRIMARY KEY,
    inverse_predicate VARCHAR(100),
    relationship_category VARCHAR(50) NOT NULL,
    subject_types VARCHAR(50)[] NOT NULL,
    object_types VARCHAR(50)[] NOT NULL,
    description TEXT,
    is_symmetric BOOLEAN DEFAULT false,
    is_transitive BOOLEAN DEFAULT false,
    created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()`),
	}
}
